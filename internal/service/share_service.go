package service

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"

	"go.uber.org/zap"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/contentschema"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
)

// maxShareTokenBytes bounds the inflated size of a share token so a
// crafted token cannot exhaust memory.
const maxShareTokenBytes = 4 << 20

type shareContentReader interface {
	FindByID(ctx context.Context, ownerID, id string) (*models.ContentRecord, error)
}

// ShareService turns a stored item into a self-contained URL-safe token
// and back. Tokens carry the payload itself, so a recipient needs no
// account and no database row, but an imported payload still has to
// pass the schema gate before it is shown.
type ShareService struct {
	contents shareContentReader
	logger   *zap.Logger
}

// NewShareService constructs the service.
func NewShareService(contents shareContentReader, logger *zap.Logger) *ShareService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShareService{contents: contents, logger: logger}
}

// shareEnvelope is the serialized token body.
type shareEnvelope struct {
	Version int                `json:"v"`
	Kind    models.ContentKind `json:"kind"`
	Title   string             `json:"title"`
	Payload json.RawMessage    `json:"payload"`
}

// SharedContent is a decoded share token.
type SharedContent struct {
	Kind    models.ContentKind `json:"kind"`
	Title   string             `json:"title"`
	Payload json.RawMessage    `json:"payload"`
}

// Encode produces a share token for one owned content record.
func (s *ShareService) Encode(ctx context.Context, ownerID, contentID string) (string, error) {
	record, err := s.contents.FindByID(ctx, ownerID, contentID)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, "content not found")
	}

	envelope := shareEnvelope{Version: 1, Kind: record.Kind, Title: record.Title, Payload: record.Payload}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode share token")
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compress share token")
	}
	if err := zw.Close(); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compress share token")
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode inflates and gate-validates a share token. Any malformed or
// truncated token surfaces the same decode error; the detail is logged,
// not leaked.
func (s *ShareService) Decode(token string) (*SharedContent, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, s.decodeFailure("token is not valid base64url", err)
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, s.decodeFailure("token is not gzip data", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(io.LimitReader(zr, maxShareTokenBytes+1))
	if err != nil {
		return nil, s.decodeFailure("token body is corrupt", err)
	}
	if len(raw) > maxShareTokenBytes {
		return nil, s.decodeFailure("token body exceeds the size limit", nil)
	}

	var envelope shareEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, s.decodeFailure("token body is not valid JSON", err)
	}

	if _, err := contentschema.Validate(envelope.Kind, envelope.Payload); err != nil {
		return nil, s.decodeFailure("token payload failed validation", err)
	}

	return &SharedContent{Kind: envelope.Kind, Title: envelope.Title, Payload: envelope.Payload}, nil
}

func (s *ShareService) decodeFailure(reason string, err error) error {
	s.logger.Warn("share token rejected", zap.String("reason", reason), zap.Error(err))
	return appErrors.Clone(appErrors.ErrShareDecode, "could not load shared content")
}
