package analysis

import "github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/domain"

// ExtractCommits normalizes a profiling export into an ordered commit
// sequence. Only the first root is read; multi-root documents are
// reduced to root 0. Missing or malformed pieces resolve to an empty
// sequence — the export shape varies across producer versions and the
// engine must not fail on partial documents.
func ExtractCommits(doc domain.ProfileDocument) []domain.Commit {
	if len(doc.DataForRoots) == 0 {
		return nil
	}
	root := doc.DataForRoots[0]
	if len(root.CommitData) == 0 {
		return nil
	}
	out := make([]domain.Commit, 0, len(root.CommitData))
	for _, c := range root.CommitData {
		if c.Duration < 0 {
			c.Duration = 0
		}
		out = append(out, c)
	}
	return out
}
