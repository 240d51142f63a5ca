package sdk

import "github.com/mitchellh/mapstructure"

// RoleNames extracts role names from the loosely typed userData.roles value.
// Both shapes the backend uses are accepted:
//   - flat names: ["Super Admin", "Sales"]
//   - role objects: [{"id": 1, "name": "Super Admin"}]
//
// Anything else yields an empty set rather than an error.
func RoleNames(roles any) []string {
	items, ok := roles.([]any)
	if !ok {
		var names []string
		if err := mapstructure.Decode(roles, &names); err == nil && roles != nil {
			return names
		}
		return []string{}
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		if name, ok := item.(string); ok {
			names = append(names, name)
			continue
		}

		var role struct {
			Name string `mapstructure:"name"`
		}
		if err := mapstructure.Decode(item, &role); err != nil {
			continue
		}
		if role.Name != "" {
			names = append(names, role.Name)
		}
	}
	return names
}

// HasRole reports whether name is among roles.
func HasRole(roles any, name string) bool {
	for _, r := range RoleNames(roles) {
		if r == name {
			return true
		}
	}
	return false
}
