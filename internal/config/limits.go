package config

const (
	// MaxTitleLength is the maximum length for workspace, folder and file titles.
	// Titles render in the sidebar and breadcrumb, so they stay short.
	MaxTitleLength = 255

	// MaxIconIDLength bounds the icon identifier (an emoji or short icon key).
	MaxIconIDLength = 32

	// MaxTrashReasonLength bounds the in_trash reason ("Deleted by <email>").
	MaxTrashReasonLength = 320

	// MaxCollaboratorBatch is the maximum number of users added or removed in one call.
	MaxCollaboratorBatch = 50

	// MaxSearchResults caps user search results.
	MaxSearchResults = 20
)
