package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tutu-network/kudos/internal/daemon"
	"github.com/tutu-network/kudos/internal/domain"
)

// loadConfig reads --config when given, else $KUDOS_HOME/config.toml.
func loadConfig() (daemon.Config, error) {
	if configPath != "" {
		return daemon.LoadConfigFile(configPath)
	}
	return daemon.LoadConfig()
}

// parseTagPairs turns ["python=12", "go=7"] into a tag table.
func parseTagPairs(pairs []string) (domain.PopularTags, error) {
	out := make(domain.PopularTags, len(pairs))
	for _, p := range pairs {
		name, count, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid tag %q (want name=count)", p)
		}
		n, err := strconv.Atoi(count)
		if err != nil {
			return nil, fmt.Errorf("invalid count for tag %q: %w", name, err)
		}
		out[strings.TrimSpace(name)] = n
	}
	return out, nil
}

// sortedTags orders a table by count, highest first, then by name.
func sortedTags(p domain.PopularTags) []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if p[names[i]] != p[names[j]] {
			return p[names[i]] > p[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
