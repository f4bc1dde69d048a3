// Package protocol defines the API request/response types. Every response
// carries the {success, error?} envelope.
package protocol

import (
	"encoding/json"

	"github.com/workdeck/workdeck/internal/project"
	"github.com/workdeck/workdeck/internal/workspace"
)

// ErrorResponse is returned on API errors.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// MessageResponse is returned by operations with no payload beyond a message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

// DetailedHealthResponse is returned by GET /health/detailed.
type DetailedHealthResponse struct {
	Success       bool   `json:"success"`
	Status        string `json:"status"` // "ok" or "degraded"
	Version       string `json:"version"`
	Workspace     string `json:"workspace"`
	Writable      bool   `json:"writable"`
	Folders       int    `json:"folders"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	Error         string `json:"error,omitempty"`
}

// ProjectResponse is returned by GET /project/{name}.
type ProjectResponse struct {
	Success bool             `json:"success"`
	Project *project.Project `json:"project"`
}

// FileContentResponse is returned by GET /project/{name}/file/{path}.
type FileContentResponse struct {
	Success bool                   `json:"success"`
	File    *workspace.FileContent `json:"file"`
}

// FileWriteResponse is returned by PUT /project/{name}/file/{path}.
type FileWriteResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	File    *workspace.EntryInfo `json:"file"`
}

// FileCreateResponse is returned by POST /project/{name}/file/{path}.
type FileCreateResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	File    *workspace.FileContent `json:"file"`
}

// FolderCreateResponse is returned by POST /project/{name}/folder/{path}.
type FolderCreateResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Folder  *workspace.EntryInfo `json:"folder"`
}

// FoldersResponse is returned by GET /folders.
type FoldersResponse struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Folders []*project.Folder `json:"folders"`
}

// ProjectCreateResponse is returned by POST /folders.
type ProjectCreateResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Folder  *project.Folder `json:"folder"`
}

// WriteRequest is the body for PUT/POST file endpoints. Content is kept raw
// so a non-string JSON value can be rejected instead of coerced.
type WriteRequest struct {
	Content json.RawMessage `json:"content"`
}

// CreateProjectRequest is the body for POST /folders.
type CreateProjectRequest struct {
	Name     string `json:"name"`
	Scaffold bool   `json:"scaffold"`
}
