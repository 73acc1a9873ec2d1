package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/quartz-framework/start/internal/catalog"
	oerrors "github.com/quartz-framework/start/internal/errors"
	"github.com/quartz-framework/start/internal/project"
	"github.com/quartz-framework/start/internal/selection"
)

// statusClientClosedRequest is the de facto status for a request abandoned
// by its client before the response was ready.
const statusClientClosedRequest = 499

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Type    string               `json:"type"`
	Message string               `json:"message"`
	Fields  []oerrors.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a response. Validation and not-found errors are
// client errors and are reported in full. Anything else is logged and
// answered with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, publicMessage string) {
	switch {
	case errors.Is(err, oerrors.ErrValidation), errors.Is(err, oerrors.ErrUnsupported):
		body := errorDetail{Type: "validation failed", Message: err.Error()}
		if detail, ok := oerrors.AsDetail(err); ok {
			body.Message = detail.Message
			body.Fields = detail.Fields
			if len(body.Fields) == 0 && detail.Field != "" {
				body.Fields = []oerrors.FieldError{{Field: detail.Field, Message: detail.Message}}
			}
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: body})
	case errors.Is(err, oerrors.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{Type: "not found", Message: err.Error()}})
	case errors.Is(err, context.Canceled):
		// The client went away; nobody reads the response.
		s.logger.Debug("request cancelled", "method", r.Method, "path", r.URL.Path)
		w.WriteHeader(statusClientClosedRequest)
	default:
		s.logger.Error(publicMessage, "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: errorDetail{
			Type:    "internal error",
			Message: publicMessage,
		}})
	}
}

// decodeJSON reads a bounded JSON body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return oerrors.NewValidationError(
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit), r.URL.Path, "", "")
		}
		return oerrors.NewValidationError(
			fmt.Sprintf("invalid JSON body: %v", err), r.URL.Path, "", "Send a JSON object")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req project.Request
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, "failed to generate project")
		return
	}

	res, data, err := s.gen.Archive(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err, "failed to generate project")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Project.ArchiveName()))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if res.ShareURL != "" {
		w.Header().Set("Link", fmt.Sprintf("<%s>; rel=\"alternate\"", res.ShareURL))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("writing archive", "error", err)
	}
}

type categoryView struct {
	catalog.CategoryInfo
	Options []catalog.Option `json:"options"`
}

type catalogView struct {
	Categories     []categoryView            `json:"categories"`
	Platforms      []catalog.PlatformInfo    `json:"platforms"`
	JavaVersions   []catalog.JavaVersionInfo `json:"javaVersions"`
	BuildTools     []catalog.BuildToolInfo   `json:"buildTools"`
	QuartzVersions []string                  `json:"quartzVersions"`
}

// CatalogView returns the catalog grouped by category.
func CatalogView(cat *catalog.Catalog) any {
	view := catalogView{
		Platforms:      cat.Platforms(),
		JavaVersions:   cat.JavaVersions(),
		BuildTools:     cat.BuildTools(),
		QuartzVersions: cat.QuartzVersions(),
	}
	for _, c := range cat.Categories() {
		view.Categories = append(view.Categories, categoryView{
			CategoryInfo: c,
			Options:      cat.Category(c.ID),
		})
	}
	return view
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CatalogView(s.catalog))
}

type toggleRequest struct {
	Platform  catalog.Platform   `json:"platform"`
	Selection []catalog.OptionID `json:"selection"`
	ID        catalog.OptionID   `json:"id"`
}

type platformRequest struct {
	From      catalog.Platform   `json:"from,omitempty"`
	Platform  catalog.Platform   `json:"platform"`
	Selection []catalog.OptionID `json:"selection"`
}

type selectionResponse struct {
	Platform  catalog.Platform        `json:"platform"`
	Selection selection.Selection     `json:"selection"`
	Removed   []catalog.OptionID      `json:"removed,omitempty"`
	States    []selection.OptionState `json:"states"`
}

func (s *Server) requirePlatform(p catalog.Platform) error {
	if p == "" {
		return oerrors.NewValidationError("platform is required", "", "platform", "")
	}
	if _, err := s.catalog.Platform(p); err != nil {
		return oerrors.NewValidationError(fmt.Sprintf("unknown platform %q", p), "", "platform", "")
	}
	return nil
}

// restore rebuilds a client supplied selection. Entries that do not hold on
// platform p are dropped.
func (s *Server) restore(p catalog.Platform, ids []catalog.OptionID) selection.Selection {
	sel, rejected := selection.Restore(s.catalog, p, ids)
	for _, rej := range rejected {
		s.logger.Debug("dropping submitted option", "id", rej.ID, "reason", rej.Reason.Message)
	}
	return sel
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, "failed to toggle option")
		return
	}
	if err := s.requirePlatform(req.Platform); err != nil {
		s.writeError(w, r, err, "failed to toggle option")
		return
	}

	sel := selection.Toggle(s.catalog, s.restore(req.Platform, req.Selection), req.Platform, req.ID)
	writeJSON(w, http.StatusOK, selectionResponse{
		Platform:  req.Platform,
		Selection: sel,
		States:    selection.States(s.catalog, sel, req.Platform),
	})
}

func (s *Server) handlePlatform(w http.ResponseWriter, r *http.Request) {
	var req platformRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, "failed to change platform")
		return
	}
	if req.From == "" {
		req.From = req.Platform
	}
	for _, p := range []catalog.Platform{req.From, req.Platform} {
		if err := s.requirePlatform(p); err != nil {
			s.writeError(w, r, err, "failed to change platform")
			return
		}
	}

	before := s.restore(req.From, req.Selection)
	after := selection.OnPlatformChange(s.catalog, before, req.Platform)

	var removed []catalog.OptionID
	for _, id := range before.IDs() {
		if !after.Has(id) {
			removed = append(removed, id)
		}
	}

	writeJSON(w, http.StatusOK, selectionResponse{
		Platform:  req.Platform,
		Selection: after,
		Removed:   removed,
		States:    selection.States(s.catalog, after, req.Platform),
	})
}

type linkResponse struct {
	URL     string          `json:"url,omitempty"`
	Query   string          `json:"query"`
	Request project.Request `json:"request"`
}

func (s *Server) handleDecodeLink(w http.ResponseWriter, r *http.Request) {
	req, err := project.DecodeQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err, "failed to decode link")
		return
	}
	s.writeLink(w, r, req)
}

func (s *Server) handleEncodeLink(w http.ResponseWriter, r *http.Request) {
	var req project.Request
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, "failed to encode link")
		return
	}
	s.writeLink(w, r, req)
}

func (s *Server) writeLink(w http.ResponseWriter, r *http.Request, req project.Request) {
	resp := linkResponse{Query: project.EncodeQuery(req).Encode(), Request: req}
	if s.cfg.PublicURL != "" {
		u, err := project.ShareURL(s.cfg.PublicURL, req)
		if err != nil {
			s.writeError(w, r, err, "failed to build link")
			return
		}
		resp.URL = u
	}
	writeJSON(w, http.StatusOK, resp)
}
