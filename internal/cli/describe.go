package cli

import (
	"fmt"

	"github.com/solipr/engine/internal/change"
)

// changeSummary is the CLI-facing JSON/text shape for a single Change:
// deliberately narrower than the internal type, since ChangeContent's
// sealed interface has no single canonical JSON encoding (the canonical
// byte encoding used for hashing is not meant for human/JSON display,
// §4.3).
type changeSummary struct {
	Hash    string `json:"hash"`
	SingleId string `json:"single_id"`
	Kind    string `json:"kind"`
	Detail  string `json:"detail"`
}

func summarize(c change.Change) changeSummary {
	h := c.Hash()
	sid := c.SingleId()
	kind, detail := describeContent(c.Content)
	return changeSummary{Hash: h.String(), SingleId: sid.String(), Kind: kind, Detail: detail}
}

func describeContent(content change.ChangeContent) (string, string) {
	switch v := content.(type) {
	case change.LineExistence:
		return "existence", fmt.Sprintf("%v", v.Existence)
	case change.LineContent:
		return "content", v.Content.String()
	case change.LineParent:
		return "parent", v.Parent.String()
	case change.LineChild:
		return "child", v.Child.String()
	default:
		return "unknown", ""
	}
}
