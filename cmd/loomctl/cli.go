package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"loomspace/internal/client/api"
	"loomspace/internal/client/docsync"
	"loomspace/internal/client/store"
	"loomspace/internal/config"
	"loomspace/internal/delta"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

type CLI struct {
	client   *api.Client
	store    *store.Store
	cursorID string
	settings *config.Realtime
	out      io.Writer
	logger   *slog.Logger
}

// loadTree fills the store with every visible workspace and its folders.
func (c *CLI) loadTree(ctx context.Context) error {
	listing := c.client.ListWorkspaces(ctx)
	if err := listing.Err(); err != nil {
		return fmt.Errorf("list workspaces: %w", err)
	}

	var nodes []store.WorkspaceNode
	for _, ws := range listing.Data.All() {
		node := store.NewWorkspaceNode(ws)
		folders := c.client.GetFolders(ctx, ws.ID)
		if err := folders.Err(); err != nil {
			return fmt.Errorf("list folders of %s: %w", ws.Title, err)
		}
		for _, f := range folders.Data {
			node.Folders = append(node.Folders, store.NewFolderNode(f))
		}
		nodes = append(nodes, node)
	}
	return c.store.Dispatch(store.SetWorkspaces{Workspaces: nodes})
}

// List prints the tree, trashed items marked.
func (c *CLI) List(ctx context.Context) error {
	if err := c.loadTree(ctx); err != nil {
		return err
	}

	state := c.store.State()
	for _, ws := range state.Workspaces {
		fmt.Fprintf(c.out, "%s%s %s%s  %s\n", colorBlue, ws.IconID, ws.Title, colorReset, store.Location{WorkspaceID: ws.ID}.Path())
		for _, folder := range ws.Folders {
			loc := c.store.Navigate(ctx, store.Location{WorkspaceID: ws.ID, FolderID: folder.ID}.Path())
			fmt.Fprintf(c.out, "  %s %s%s  %s\n", folder.IconID, folder.Title, trashed(folder.InTrash), loc.Path())

			current, _ := store.FindFolder(c.store.State(), ws.ID, folder.ID)
			for _, file := range current.Files {
				fileLoc := store.Location{WorkspaceID: ws.ID, FolderID: folder.ID, FileID: file.ID}
				fmt.Fprintf(c.out, "    %s %s%s  %s\n", file.IconID, file.Title, trashed(file.InTrash), fileLoc.Path())
			}
		}
	}
	return nil
}

func trashed(reason *string) string {
	if reason == nil || *reason == "" {
		return ""
	}
	return fmt.Sprintf(" %s[trash: %s]%s", colorYellow, *reason, colorReset)
}

// Open joins the document at path and relays stdin lines as edits until EOF,
// :q or ctx ends. Closing saves the document.
func (c *CLI) Open(ctx context.Context, path string, in io.Reader) error {
	if err := c.loadTree(ctx); err != nil {
		return err
	}

	loc := c.store.Navigate(ctx, path)
	target, ok := docsync.TargetFor(loc)
	if !ok {
		return fmt.Errorf("no document at %q", path)
	}

	loader := docsync.NewLoader(c.client, c.store, store.NewMutator(c.store, c.client, c.logger), c.logger)
	editor := docsync.NewMemoryEditor()
	if err := loader.Load(ctx, target, editor); err != nil {
		return err
	}

	socket, err := docsync.Dial(ctx, c.client.SocketURL(), c.client.Token(), c.logger)
	if err != nil {
		return err
	}
	defer socket.Close()
	socket.OnStatus(func(connected bool) {
		if !connected {
			fmt.Fprintf(c.out, "%sdisconnected from server%s\n", colorRed, colorReset)
		}
	})

	peers, err := docsync.RoomUsers(ctx, c.client, target.WorkspaceID)
	if err != nil {
		c.logger.Warn("no cursor overlays", "workspace_id", target.WorkspaceID, "error", err)
	}

	session := docsync.NewSession(editor, socket, docsync.Options{
		CursorID:  c.cursorID,
		Peers:     peers,
		Debouncer: docsync.NewDebouncer(c.settings.SaveDebounce, nil, nil),
		OnUnload:  loader.UnloadHook(ctx),
	}, c.logger)
	if err := session.Open(ctx, target.DocumentID()); err != nil {
		return err
	}
	defer session.Close()

	editor.OnTextChange(func(_, _ *delta.Delta, source docsync.Source) {
		if source == docsync.SourceAPI {
			fmt.Fprintf(c.out, "%s--- remote change ---%s\n%s", colorCyan, colorReset, editor.Text())
		}
	})

	fmt.Fprintf(c.out, "%s%s%s\n", colorGreen, store.Breadcrumb(c.store.State(), loc), colorReset)
	fmt.Fprint(c.out, editor.Text())
	fmt.Fprintf(c.out, "%sType lines to append, :text to print, :who for cursors, :q to quit%s\n", colorYellow, colorReset)

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-socket.Done():
			return errors.New("connection lost")
		case err := <-scanErr:
			return err
		case line := <-lines:
			switch strings.TrimSpace(line) {
			case ":q":
				return nil
			case ":text":
				fmt.Fprint(c.out, editor.Text())
			case ":who":
				for _, cursor := range session.Cursors().List() {
					fmt.Fprintf(c.out, "%s%s%s %v\n", colorCyan, cursor.Name, colorReset, cursor.Range)
				}
			default:
				editor.AppendLine(line, docsync.SourceUser)
			}
		}
	}
}
