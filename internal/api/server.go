// Package api provides the HTTP server and handlers.
package api

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/workdeck/workdeck/internal/config"
	"github.com/workdeck/workdeck/internal/events"
	"github.com/workdeck/workdeck/internal/logging"
	"github.com/workdeck/workdeck/internal/metrics"
	"github.com/workdeck/workdeck/internal/project"
	"github.com/workdeck/workdeck/internal/protocol"
	"github.com/workdeck/workdeck/internal/workspace"
	"github.com/workdeck/workdeck/webapp"
)

// Version is reported by the health endpoints.
const Version = "1.0.0"

// Pool gzip writers to reduce allocations on tree endpoints.
var gzipPool = sync.Pool{
	New: func() any { return gzip.NewWriter(nil) },
}

// Server is the HTTP server.
type Server struct {
	ws       *workspace.Workspace
	projects *project.Service
	config   *config.Config
	started  time.Time

	// SSE
	broadcaster *events.Broadcaster
}

// NewServer creates a new server.
func NewServer(ws *workspace.Workspace, projects *project.Service, broadcaster *events.Broadcaster, cfg *config.Config) *Server {
	return &Server{
		ws:          ws,
		projects:    projects,
		broadcaster: broadcaster,
		config:      cfg,
		started:     time.Now(),
	}
}

// Handler returns the HTTP handler with logging and metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/detailed", s.handleHealthDetailed)

	// Folder cards
	mux.HandleFunc("GET /folders", s.handleListFolders)
	mux.HandleFunc("POST /folders", s.handleCreateProject)
	mux.HandleFunc("DELETE /folders/{name}", s.handleDeleteProject)

	// Project tree
	mux.HandleFunc("GET /project/{name}", s.handleGetProject)

	// File and folder operations inside a project
	mux.HandleFunc("GET /project/{name}/file/{path...}", s.handleReadFile)
	mux.HandleFunc("PUT /project/{name}/file/{path...}", s.handleWriteFile)
	mux.HandleFunc("POST /project/{name}/file/{path...}", s.handleCreateFile)
	mux.HandleFunc("DELETE /project/{name}/file/{path...}", s.handleDeleteEntry)
	mux.HandleFunc("POST /project/{name}/folder/{path...}", s.handleCreateFolder)

	// SSE endpoint
	mux.HandleFunc("GET /events", s.handleEvents)

	// Web app
	// WEBAPP_DIR overrides embedded assets for live-reload during development
	var appHandler http.Handler
	if dir := os.Getenv("WEBAPP_DIR"); dir != "" {
		logging.Info("serving webapp from disk", zap.String("dir", dir))
		appHandler = http.StripPrefix("/app/", http.FileServer(http.Dir(dir)))
	} else {
		appFS, _ := fs.Sub(webapp.Assets, ".")
		appHandler = http.StripPrefix("/app/", http.FileServer(http.FS(appFS)))
	}
	mux.Handle("/app/", appHandler)
	mux.HandleFunc("GET /app", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/app/", http.StatusMovedPermanently)
	})

	// Redirect root to /app/
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/app/", http.StatusMovedPermanently)
	})

	return metrics.Middleware(logging.Middleware(mux))
}

// ─── Health ─────────────────────────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, protocol.HealthResponse{
		Success: true,
		Status:  "ok",
		Version: Version,
	})
}

func (s *Server) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	resp := protocol.DetailedHealthResponse{
		Success:       true,
		Status:        "ok",
		Version:       Version,
		Workspace:     s.ws.Root(),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	}

	if err := s.probeWritable(); err != nil {
		resp.Status = "degraded"
		resp.Error = err.Error()
		s.writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.Writable = true

	folders, err := s.projects.List()
	if err != nil {
		resp.Status = "degraded"
		resp.Error = err.Error()
		s.writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.Folders = len(folders)

	s.writeJSON(w, http.StatusOK, resp)
}

// probeWritable verifies the workspace root accepts writes by creating and
// removing a throwaway file.
func (s *Server) probeWritable() error {
	f, err := os.CreateTemp(s.ws.Root(), ".healthcheck-*")
	if err != nil {
		return fmt.Errorf("workspace not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return nil
}

// ─── Folders ────────────────────────────────────────────────────────────────

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.projects.List()
	if err != nil {
		metrics.RecordFSOperation("list", "error")
		s.sendError(w, err)
		return
	}
	metrics.RecordFSOperation("list", "ok")

	s.writeJSON(w, http.StatusOK, protocol.FoldersResponse{
		Success: true,
		Count:   len(folders),
		Folders: folders,
	})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req protocol.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := s.projects.Create(req.Name, req.Scaffold)
	if err != nil {
		metrics.RecordFSOperation("create_project", "error")
		s.sendError(w, err)
		return
	}
	metrics.RecordFSOperation("create_project", "ok")

	logging.Info("project created",
		zap.String("name", folder.Name),
		zap.Bool("scaffold", req.Scaffold))

	s.publishEvent(events.EventMkdir, folder.Path, "folder", 0)

	s.writeJSON(w, http.StatusCreated, protocol.ProjectCreateResponse{
		Success: true,
		Message: "project created",
		Folder:  folder,
	})
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := s.projects.Delete(name); err != nil {
		metrics.RecordFSOperation("delete_project", "error")
		s.sendError(w, err)
		return
	}
	metrics.RecordFSOperation("delete_project", "ok")

	logging.Info("project deleted", zap.String("name", name))

	s.publishEvent(events.EventDelete, name, "folder", 0)

	s.writeJSON(w, http.StatusOK, protocol.MessageResponse{
		Success: true,
		Message: "project deleted",
	})
}

// ─── Project tree ───────────────────────────────────────────────────────────

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	start := time.Now()
	proj, err := s.projects.Get(name)
	if err != nil {
		metrics.RecordFSOperation("tree", "error")
		// A top-level file is not a project; from this endpoint's point of
		// view the project does not exist.
		if errors.Is(err, workspace.ErrNotDirectory) {
			s.sendErrorMsg(w, http.StatusNotFound, err.Error())
			return
		}
		s.sendError(w, err)
		return
	}
	metrics.RecordFSOperation("tree", "ok")
	metrics.ObserveTreeWalk(time.Since(start), workspace.CountNodes(proj.Tree))

	resp := protocol.ProjectResponse{Success: true, Project: proj}

	if acceptsGzip(r) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Encoding", "gzip")
		gw := gzipPool.Get().(*gzip.Writer)
		gw.Reset(w)
		json.NewEncoder(gw).Encode(resp)
		gw.Close()
		gzipPool.Put(gw)
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// ─── Files ──────────────────────────────────────────────────────────────────

// entryPath joins the project name and the in-project path into one
// workspace-relative path. Confinement is enforced by the workspace resolver,
// not here.
func entryPath(r *http.Request) (string, error) {
	p := r.PathValue("path")
	if p == "" {
		return "", errors.New("file path required")
	}
	return r.PathValue("name") + "/" + p, nil
}

func (s *Server) handleReadFile(w http.ResponseWriter, r *http.Request) {
	rel, err := entryPath(r)
	if err != nil {
		s.sendErrorMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	fc, err := s.ws.ReadFile(rel)
	if err != nil {
		metrics.RecordFSOperation("read", "error")
		s.sendError(w, err)
		return
	}
	metrics.RecordFSOperation("read", "ok")
	metrics.AddContentBytesRead(fc.Size)

	s.writeJSON(w, http.StatusOK, protocol.FileContentResponse{
		Success: true,
		File:    fc,
	})
}

func (s *Server) handleWriteFile(w http.ResponseWriter, r *http.Request) {
	rel, err := entryPath(r)
	if err != nil {
		s.sendErrorMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	content, ok := s.decodeContent(w, r)
	if !ok {
		return
	}

	// Distinguish create from modify for the event stream.
	_, _, statErr := s.ws.Stat(rel)
	existed := statErr == nil

	info, err := s.ws.WriteFile(rel, content)
	if err != nil {
		metrics.RecordFSOperation("write", "error")
		s.sendError(w, err)
		return
	}
	metrics.RecordFSOperation("write", "ok")
	metrics.AddContentBytesWritten(info.Size)

	logging.Info("file saved",
		zap.String("path", info.Path),
		zap.Int64("size", info.Size))

	eventType := events.EventCreate
	if existed {
		eventType = events.EventModify
	}
	s.publishEvent(eventType, info.Path, "file", info.Size)

	s.writeJSON(w, http.StatusOK, protocol.FileWriteResponse{
		Success: true,
		Message: "file saved",
		File:    info,
	})
}

func (s *Server) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	rel, err := entryPath(r)
	if err != nil {
		s.sendErrorMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	// Body is optional on create; an absent body means an empty file.
	content := ""
	if r.ContentLength != 0 {
		var ok bool
		if content, ok = s.decodeContent(w, r); !ok {
			return
		}
	}

	info, err := s.ws.CreateFile(rel, content)
	if err != nil {
		metrics.RecordFSOperation("create_file", "error")
		s.sendError(w, err)
		return
	}
	metrics.RecordFSOperation("create_file", "ok")
	metrics.AddContentBytesWritten(info.Size)

	logging.Info("file created", zap.String("path", info.Path))

	s.publishEvent(events.EventCreate, info.Path, "file", info.Size)

	fc, err := s.ws.ReadFile(rel)
	if err != nil {
		s.sendError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, protocol.FileCreateResponse{
		Success: true,
		Message: "file created",
		File:    fc,
	})
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	rel, err := entryPath(r)
	if err != nil {
		s.sendErrorMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	kind, err := s.ws.Delete(rel)
	if err != nil {
		metrics.RecordFSOperation("delete", "error")
		s.sendError(w, err)
		return
	}
	metrics.RecordFSOperation("delete", "ok")

	logging.Info("entry deleted", zap.String("path", rel), zap.String("kind", kind))

	s.publishEvent(events.EventDelete, rel, kind, 0)

	s.writeJSON(w, http.StatusOK, protocol.MessageResponse{
		Success: true,
		Message: kind + " deleted",
	})
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	rel, err := entryPath(r)
	if err != nil {
		s.sendErrorMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	info, err := s.ws.CreateFolder(rel)
	if err != nil {
		metrics.RecordFSOperation("create_folder", "error")
		s.sendError(w, err)
		return
	}
	metrics.RecordFSOperation("create_folder", "ok")

	logging.Info("folder created", zap.String("path", info.Path))

	s.publishEvent(events.EventMkdir, info.Path, "folder", 0)

	s.writeJSON(w, http.StatusCreated, protocol.FolderCreateResponse{
		Success: true,
		Message: "folder created",
		Folder:  info,
	})
}

// decodeContent extracts the content string from a write request body. The
// content field must be a JSON string; any other JSON type is rejected so a
// client bug cannot silently coerce structured data into a file. Writes an
// error response and returns ok=false on failure.
func (s *Server) decodeContent(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req protocol.WriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	if req.Content == nil {
		s.sendError(w, fmt.Errorf("content field required: %w", workspace.ErrInvalidContent))
		return "", false
	}
	var content string
	if err := json.Unmarshal(req.Content, &content); err != nil {
		s.sendError(w, workspace.ErrInvalidContent)
		return "", false
	}
	if int64(len(content)) > s.ws.MaxFileSize() {
		s.sendErrorMsg(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("content too large: max %d bytes", s.ws.MaxFileSize()))
		return "", false
	}
	return content, true
}

// ─── SSE Events ─────────────────────────────────────────────────────────────

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.sendErrorMsg(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Subscribe before the headers go out so an event published right after
	// the client sees the response cannot be missed.
	ch := s.broadcaster.Subscribe()
	defer s.broadcaster.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			data, err := events.MarshalEvent(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()
		}
	}
}

// publishEvent publishes an event to the broadcaster if available.
func (s *Server) publishEvent(eventType, path, kind string, size int64) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Publish(events.Event{
		Type: eventType,
		Path: path,
		Kind: kind,
		Size: size,
	})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// sendError maps a workspace error to its HTTP status and writes the error
// envelope. Unexpected I/O errors keep their detail in the log; the client
// only gets a generic message.
func (s *Server) sendError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	message := err.Error()
	if code >= http.StatusInternalServerError {
		logging.Error("request failed", zap.Int("status", code), zap.Error(err))
		message = "internal error"
	}
	s.sendErrorMsg(w, code, message)
}

func (s *Server) sendErrorMsg(w http.ResponseWriter, code int, message string) {
	s.writeJSON(w, code, protocol.ErrorResponse{
		Success: false,
		Error:   message,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, workspace.ErrPathEscape):
		return http.StatusForbidden
	case errors.Is(err, workspace.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workspace.ErrExists):
		return http.StatusConflict
	case errors.Is(err, workspace.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, workspace.ErrIsDirectory),
		errors.Is(err, workspace.ErrNotDirectory),
		errors.Is(err, workspace.ErrInvalidName),
		errors.Is(err, workspace.ErrInvalidContent):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
