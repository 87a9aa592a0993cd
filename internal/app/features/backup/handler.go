package backup

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	snapshotstore "github.com/pod44apps/community-pulse/internal/app/store/snapshot"
	"github.com/pod44apps/community-pulse/internal/app/system/auth"
	"github.com/pod44apps/community-pulse/internal/app/system/httpjson"
	"github.com/pod44apps/community-pulse/internal/app/system/timeouts"
	"github.com/pod44apps/community-pulse/internal/app/transfer"
)

// maxImportBytes caps the uploaded export document.
const maxImportBytes = 64 << 20

// Handler owns the database export/import endpoints.
type Handler struct {
	Stores transfer.Stores
	Log    *zap.Logger
}

// NewHandler constructs a backup Handler with raw views of the five entity
// collections.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Stores: transfer.Stores{
			Members:     snapshotstore.New(db, "members"),
			Messages:    snapshotstore.New(db, "messages"),
			Settings:    snapshotstore.New(db, "settings"),
			ActionCards: snapshotstore.New(db, "action_cards"),
			Ventures:    snapshotstore.New(db, "ventures"),
		},
		Log: logger,
	}
}

// sessionIdentity adapts the request's session user to the transfer's
// identity contract.
type sessionIdentity struct {
	r *http.Request
}

func (s sessionIdentity) Me(ctx context.Context) (transfer.Caller, error) {
	su, ok := auth.CurrentUser(s.r)
	if !ok {
		return transfer.Caller{}, errors.New("not authenticated")
	}
	return transfer.Caller{
		Email:    su.Email,
		FullName: su.Name,
		Role:     su.Role,
	}, nil
}

func (h *Handler) newTransfer(r *http.Request) *transfer.Transfer {
	return &transfer.Transfer{
		Stores:   h.Stores,
		Identity: sessionIdentity{r: r},
		Progress: func(step transfer.Step) {
			h.Log.Debug("transfer step", zap.String("step", string(step)))
		},
	}
}

// ServeExport handles GET /backup/export: streams the full export document
// as a file download.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch)
	defer cancel()

	snap, err := h.newTransfer(r).Export(ctx)
	if err != nil {
		h.respondError(w, err, "export")
		return
	}
	data, err := transfer.EncodeSnapshot(snap)
	if err != nil {
		h.Log.Error("snapshot encode failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not encode export")
		return
	}

	h.Log.Info("database exported",
		zap.String("by", snap.Info.ExportedBy),
		zap.Int("members", snap.Info.EntityCounts.Members),
		zap.Int("messages", snap.Info.EntityCounts.Messages),
		zap.Int("settings", snap.Info.EntityCounts.Settings),
		zap.Int("action_cards", snap.Info.EntityCounts.ActionCards),
		zap.Int("ventures", snap.Info.EntityCounts.Ventures))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+transfer.ExportFilename(time.Now())+`"`)
	_, _ = w.Write(data)
}

type importResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// HandleImport handles POST /backup/import with a multipart "file" field
// holding an export document. On success the client should reload so the
// re-created records become visible.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	file, _, err := r.FormFile("file")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "missing import file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "could not read import file")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch)
	defer cancel()

	if err := h.newTransfer(r).Import(ctx, data); err != nil {
		h.respondError(w, err, "import")
		return
	}

	h.Log.Info("database imported", zap.Int("bytes", len(data)))
	httpjson.Respond(w, http.StatusOK, importResponse{
		OK:      true,
		Message: "import complete; reload to see the restored data",
	})
}

// respondError maps transfer failures onto the HTTP error taxonomy:
// permission problems are 403, bad documents are 422, store failures 500.
func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	var ife *transfer.InvalidFormatError
	switch {
	case errors.Is(err, transfer.ErrPermissionDenied):
		httpjson.Error(w, http.StatusForbidden, err.Error())
	case errors.As(err, &ife):
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.Log.Error(op+" failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, op+" failed: "+err.Error())
	}
}
