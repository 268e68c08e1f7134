package prefixes

import (
	"encoding/json"
	"os"

	"github.com/topoprobe/campaign/internal/model"
)

// Load reads prefix groups from a JSON file.
func Load(path string) ([]model.PrefixGroup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var groups []model.PrefixGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Save writes prefix groups to a JSON file.
func Save(path string, groups []model.PrefixGroup) error {
	if groups == nil {
		groups = []model.PrefixGroup{}
	}
	data, err := json.Marshal(groups)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
