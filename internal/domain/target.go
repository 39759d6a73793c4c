package domain

// ReviewMode identifies the three ways a review target can be specified.
type ReviewMode string

const (
	ModeDiff ReviewMode = "diff"
	ModePR   ReviewMode = "pr"
	ModeFile ReviewMode = "file"
)

// ReviewTarget is a closed union over the three input modes. All variants
// carry an optional related-issue number (0 means none). Targets are
// immutable once constructed.
type ReviewTarget interface {
	Mode() ReviewMode
	// RelatedIssue returns the supplementary issue number, or 0 if none.
	RelatedIssue() int

	sealedTarget()
}

// DiffTarget reviews the current branch against the merge-base with a base
// branch.
type DiffTarget struct {
	BaseBranch  string
	IssueNumber int
}

// PRTarget reviews a pull request by number.
type PRTarget struct {
	Number      int
	IssueNumber int
}

// FileTarget reviews an explicit set of paths, globs, or directories.
// Expansion is the caller's job; paths are rendered as given.
type FileTarget struct {
	Paths       []string
	IssueNumber int
}

func (DiffTarget) Mode() ReviewMode { return ModeDiff }
func (PRTarget) Mode() ReviewMode   { return ModePR }
func (FileTarget) Mode() ReviewMode { return ModeFile }

func (t DiffTarget) RelatedIssue() int { return t.IssueNumber }
func (t PRTarget) RelatedIssue() int   { return t.IssueNumber }
func (t FileTarget) RelatedIssue() int { return t.IssueNumber }

func (DiffTarget) sealedTarget() {}
func (PRTarget) sealedTarget()   {}
func (FileTarget) sealedTarget() {}

var (
	_ ReviewTarget = DiffTarget{}
	_ ReviewTarget = PRTarget{}
	_ ReviewTarget = FileTarget{}
)
