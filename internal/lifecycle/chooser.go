package lifecycle

import "github.com/bewcloud/bewcloud-desktop-sync/internal/domain"

// DirectoryChooser is the toggle set behind the remote directory selection
// shared by the create and edit flows. It is not safe for concurrent use; the
// flows hand it to the UI only between I/O steps.
type DirectoryChooser struct {
	options []domain.Directory
	chosen  map[string]bool
	// initially chosen names the discovery result no longer lists
	missing []string
}

func NewDirectoryChooser(options []domain.Directory, initial []string) *DirectoryChooser {
	c := &DirectoryChooser{
		options: append([]domain.Directory(nil), options...),
		chosen:  make(map[string]bool, len(initial)),
	}

	offered := make(map[string]bool, len(options))
	for _, option := range options {
		offered[option.Name] = true
	}

	for _, name := range initial {
		if c.chosen[name] {
			continue
		}
		c.chosen[name] = true
		if !offered[name] {
			c.missing = append(c.missing, name)
		}
	}

	return c
}

func (c *DirectoryChooser) Toggle(name string) {
	if c.chosen[name] {
		delete(c.chosen, name)
		return
	}
	c.chosen[name] = true
}

func (c *DirectoryChooser) IsChosen(name string) bool {
	return c.chosen[name]
}

func (c *DirectoryChooser) Options() []domain.Directory {
	return append([]domain.Directory(nil), c.options...)
}

// Chosen returns the selection in presentation order, followed by initially
// chosen names that were not offered.
func (c *DirectoryChooser) Chosen() []string {
	var result []string
	seen := make(map[string]bool, len(c.chosen))

	for _, option := range c.options {
		if c.chosen[option.Name] && !seen[option.Name] {
			seen[option.Name] = true
			result = append(result, option.Name)
		}
	}
	for _, name := range c.missing {
		if c.chosen[name] && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}

	return result
}
