package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"loomspace/internal/auth"
	"loomspace/internal/config"
	"loomspace/internal/delta"
	models "loomspace/internal/domain/models/workspace"
	"loomspace/internal/repository/postgres"
	pgWorkspace "loomspace/internal/repository/postgres/workspace"
	authService "loomspace/internal/service/auth"
	wsService "loomspace/internal/service/workspace"

	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	email := flag.String("email", "demo@loomspace.dev", "Demo account email")
	password := flag.String("password", "loomspace-demo", "Demo account password (used when the account is created)")
	userID := flag.String("user-id", "", "Use this user id instead of creating an auth account")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := config.NewLogger(false, os.Stdout)

	log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		for _, stmt := range postgres.DropStatements(tables) {
			if _, err := pool.Exec(ctx, stmt); err != nil {
				log.Fatalf("Failed to drop tables: %v", err)
			}
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	workspaceRepo := pgWorkspace.NewWorkspaceRepository(repoConfig)
	folderRepo := pgWorkspace.NewFolderRepository(repoConfig)
	fileRepo := pgWorkspace.NewFileRepository(repoConfig)
	collaboratorRepo := pgWorkspace.NewCollaboratorRepository(repoConfig)
	userRepo := pgWorkspace.NewUserRepository(repoConfig)
	txManager := postgres.NewTransactionManager(repoConfig)

	owner := models.User{ID: *userID, Email: *email}
	if owner.ID == "" {
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			log.Fatalf("SUPABASE_URL and SUPABASE_KEY are required to create the demo account (or pass --user-id)")
		}
		account, err := auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey).EnsureUser(ctx, *email, *password, "Demo User")
		if err != nil {
			log.Fatalf("Failed to ensure demo account: %v", err)
		}
		owner.ID = account.ID
		log.Printf("👤 Demo account %s (ID: %s)", account.Email, account.ID)
	}
	if err := userRepo.Upsert(ctx, &owner); err != nil {
		log.Fatalf("Failed to upsert demo profile: %v", err)
	}

	authorizer := authService.NewMembershipAuthorizer(workspaceRepo, folderRepo, fileRepo, collaboratorRepo)
	scope := wsService.Services{
		Workspaces:    wsService.NewWorkspaceService(workspaceRepo, folderRepo, fileRepo, collaboratorRepo, txManager, authorizer, logger),
		Folders:       wsService.NewFolderService(folderRepo, fileRepo, txManager, authorizer, logger),
		Files:         wsService.NewFileService(fileRepo, folderRepo, authorizer, logger),
		Collaborators: wsService.NewCollaboratorService(collaboratorRepo, userRepo, txManager, authorizer, logger),
	}.ForUser(owner.ID)

	if err := seed(ctx, scope); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}
	log.Println("🎉 Seeding complete!")
}

type seedFile struct {
	title, icon string
	body        *delta.Delta
}

type seedFolder struct {
	title, icon string
	files       []seedFile
}

func seed(ctx context.Context, scope *wsService.UserScope) error {
	ws := scope.CreateWorkspace(ctx, models.Workspace{
		Title:  "Demo Workspace",
		IconID: "💼",
		Data:   body(delta.New().Insert("Welcome", delta.Attributes{"bold": true}).Insert(" to your shared workspace.\n", nil)),
	})
	if ws.Failed() {
		return fmt.Errorf("create workspace: %w", ws.Err())
	}
	log.Printf("✅ Created workspace %s (ID: %s)", ws.Data.Title, ws.Data.ID)

	for _, folder := range seedFolders() {
		created := scope.CreateFolder(ctx, models.Folder{WorkspaceID: ws.Data.ID, Title: folder.title, IconID: folder.icon})
		if created.Failed() {
			return fmt.Errorf("create folder %q: %w", folder.title, created.Err())
		}
		log.Printf("  📁 %s", folder.title)

		for _, file := range folder.files {
			res := scope.CreateFile(ctx, models.File{
				WorkspaceID: ws.Data.ID,
				FolderID:    created.Data.ID,
				Title:       file.title,
				IconID:      file.icon,
				Data:        body(file.body),
			})
			if res.Failed() {
				log.Printf("❌ Failed to create file '%s': %v", file.title, res.Err())
				continue
			}
			log.Printf("    📄 %s (ID: %s)", file.title, res.Data.ID)
		}
	}
	return nil
}

func seedFolders() []seedFolder {
	return []seedFolder{
		{
			title: "Meeting Notes",
			icon:  "🗓️",
			files: []seedFile{
				{"Kickoff", "🚀", delta.New().
					Insert("Kickoff", nil).Insert("\n", delta.Attributes{"header": 1}).
					Insert("Goals for the quarter and who owns them.\n", nil)},
				{"Weekly sync", "🔁", delta.New().
					Insert("Agenda", nil).Insert("\n", delta.Attributes{"header": 2}).
					Insert("Status", nil).Insert("\n", delta.Attributes{"list": "bullet"}).
					Insert("Blockers", nil).Insert("\n", delta.Attributes{"list": "bullet"})},
			},
		},
		{
			title: "Specs",
			icon:  "📐",
			files: []seedFile{
				{"Realtime editing", "✍️", delta.New().
					Insert("Edits are shared as deltas; ", nil).
					Insert("nobody saves by hand", delta.Attributes{"italic": true}).
					Insert(".\n", nil)},
			},
		},
		{
			title: "Scratch",
			icon:  "🗒️",
		},
	}
}

func body(d *delta.Delta) *string {
	s := d.String()
	return &s
}
