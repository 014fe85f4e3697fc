package resolve

import (
	"fmt"
	"strings"

	"github.com/lifedraft/sitehook/internal/sitecustom"
)

// knownScopes maps lowercase scope names to their scope.
var knownScopes = map[string]sitecustom.Scope{
	"site": sitecustom.ScopeSite,
	"user": sitecustom.ScopeUser,
}

// aliases maps common alternative names to their lowercase canonical form.
var aliases = map[string]string{
	"system":        "site",
	"global":        "site",
	"sitecustomize": "site",
	"usercustomize": "user",
	"home":          "user",
}

// Scope resolves a user-provided scope name. It handles:
//   - Case-insensitive matching: "USER" → user
//   - Aliases: "system" → site, "usercustomize" → user
//   - File names: "sitecustomize.py" → site
//
// Unknown names fail with sitecustom.ErrInvalidArgument.
func Scope(input string) (sitecustom.Scope, error) {
	lower := strings.ToLower(strings.TrimSpace(input))
	lower = strings.TrimSuffix(lower, ".py")

	if scope, ok := knownScopes[lower]; ok {
		return scope, nil
	}
	if target, ok := aliases[lower]; ok {
		if scope, ok := knownScopes[target]; ok {
			return scope, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown scope %q (valid: site, user)", sitecustom.ErrInvalidArgument, input)
}
