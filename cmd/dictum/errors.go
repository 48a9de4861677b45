package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/steveyegge/dictum/internal/config"
	"github.com/steveyegge/dictum/internal/jsonl"
	"github.com/steveyegge/dictum/internal/storage"
	"github.com/steveyegge/dictum/internal/types"
)

// errorCode classifies err for the JSON error object.
func errorCode(err error) string {
	var invalid *types.InvalidValueError
	switch {
	case errors.Is(err, storage.ErrNotInitialized):
		return "not_initialized"
	case errors.Is(err, storage.ErrAlreadyInitialized):
		return "already_initialized"
	case errors.Is(err, storage.ErrDecisionNotFound):
		return "not_found"
	case errors.Is(err, storage.ErrDuplicateID):
		return "duplicate_id"
	case errors.Is(err, storage.ErrLinkAlreadyExists):
		return "link_exists"
	case errors.Is(err, storage.ErrSelfLink):
		return "self_link"
	case errors.Is(err, storage.ErrLinkNotFound):
		return "link_not_found"
	case errors.As(err, &invalid), errors.Is(err, types.ErrTitleRequired):
		return "invalid_input"
	case errors.Is(err, jsonl.ErrSerialization):
		return "serialization"
	case errors.Is(err, config.ErrConfig):
		return "config"
	case errors.Is(err, storage.ErrStorage):
		return "storage"
	default:
		return ""
	}
}

// reportError writes "Error: ..." to w, or a JSON error object when
// --json was given.
func (a *app) reportError(w io.Writer, err error) {
	if a.jsonOutput || a.formatFlag() == formatJSON {
		outputJSONError(w, err, errorCode(err))
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	if errors.Is(err, storage.ErrNotInitialized) && a.dir == "" {
		fmt.Fprintf(w, "Hint: run 'dictum init' in the project root, or set --dir / DICTUM_DIR\n")
	}
}

// outputJSONError writes an error as JSON.
func outputJSONError(w io.Writer, err error, code string) {
	errObj := map[string]string{"error": err.Error()}
	if code != "" {
		errObj["code"] = code
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(errObj)
}
