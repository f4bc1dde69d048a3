package workspace

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Resolve joins client-supplied path segments onto the workspace root and
// returns the confined absolute path. Segments are untrusted: they may contain
// "..", redundant "./", or absolute-looking prefixes. Join semantics collapse
// these lexically; the result must equal the root or sit strictly below it,
// otherwise ErrPathEscape is returned and the filesystem must not be touched
// with the input.
//
// Containment is a string-prefix check on the canonicalized form, so its case
// sensitivity follows the host filesystem.
func (ws *Workspace) Resolve(segments ...string) (string, error) {
	joined := filepath.Join(append([]string{ws.root}, segments...)...)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", strings.Join(segments, "/"), err)
	}

	if abs != ws.root && !strings.HasPrefix(abs, ws.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", strings.Join(segments, "/"), ErrPathEscape)
	}
	return abs, nil
}

// Rel converts a confined absolute path back to its workspace-relative,
// forward-slash form. The root itself maps to "".
func (ws *Workspace) Rel(abs string) string {
	rel := strings.TrimPrefix(abs, ws.root)
	return strings.TrimPrefix(filepath.ToSlash(rel), "/")
}
