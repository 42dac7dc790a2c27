package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultDatabase is the pseudo-wiki whose rows hold the default namespaces
// and permission groups copied into newly created wikis.
const DefaultDatabase = "default"

// Farm holds the static rules shared by every wiki in the farm. It is loaded
// once at startup and never mutated afterwards.
type Farm struct {
	// Modules lists the enabled capabilities (settings, extensions,
	// namespaces, permissions).
	Modules []string `yaml:"modules"`

	// DefaultDatabase is the template wiki id (default: "default").
	DefaultDatabase string `yaml:"default_database"`

	// ExtensionsDefault is enabled on every newly created wiki.
	ExtensionsDefault []string `yaml:"extensions_default"`

	// NamespacesAdditional are the per-namespace setting rules, in file order.
	NamespacesAdditional AdditionalSettings `yaml:"namespaces_additional"`

	// PermissionsAdditionalRights grants (true) or revokes (false) rights per group.
	PermissionsAdditionalRights RightsTable `yaml:"permissions_additional_rights"`

	// PermissionsAdditionalAddGroups extends each group's add-groups list.
	PermissionsAdditionalAddGroups map[string][]string `yaml:"permissions_additional_add_groups"`

	// PermissionsAdditionalRemoveGroups extends each group's remove-groups list.
	PermissionsAdditionalRemoveGroups map[string][]string `yaml:"permissions_additional_remove_groups"`

	// PermissionsDefaultPrivateGroup is created when a wiki goes private and
	// removed when it goes public. Empty disables both.
	PermissionsDefaultPrivateGroup string `yaml:"permissions_default_private_group"`
}

// LoadFarm reads and decodes the farm rules file at path.
func LoadFarm(path string) (*Farm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading farm config %s: %w", path, err)
	}
	farm, err := ParseFarm(data)
	if err != nil {
		return nil, fmt.Errorf("parsing farm config %s: %w", path, err)
	}
	return farm, nil
}

// ParseFarm decodes farm rules from YAML and fills defaults.
func ParseFarm(data []byte) (*Farm, error) {
	farm := &Farm{}
	if err := yaml.Unmarshal(data, farm); err != nil {
		return nil, err
	}
	if farm.DefaultDatabase == "" {
		farm.DefaultDatabase = DefaultDatabase
	}
	for _, rule := range farm.NamespacesAdditional {
		if rule.Variable == "" {
			return nil, fmt.Errorf("namespaces_additional: empty variable name")
		}
	}
	return farm, nil
}

// --- Additional namespace settings ---

// Setting rule types with special handling. Any other type is stored as a
// per-namespace indexed value.
const (
	RuleTypeCheck   = "check"
	RuleTypeVEStyle = "vestyle"
)

// AdditionalSettingRule maps one configuration variable to per-namespace
// override behavior.
type AdditionalSettingRule struct {
	Variable        string          `yaml:"-"`
	Name            string          `yaml:"name"`
	Type            string          `yaml:"type"`
	Constant        bool            `yaml:"constant"`
	Only            NamespaceFilter `yaml:"only"`
	OverrideDefault Override        `yaml:"overridedefault"`
}

// AdditionalSettings is an ordered list of rules. In YAML it is written as a
// mapping keyed by variable name; the mapping order is kept.
type AdditionalSettings []AdditionalSettingRule

// UnmarshalYAML decodes the variable-keyed mapping in document order.
func (s *AdditionalSettings) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: namespaces_additional must be a mapping", value.Line)
	}
	rules := make(AdditionalSettings, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var rule AdditionalSettingRule
		if err := value.Content[i+1].Decode(&rule); err != nil {
			return fmt.Errorf("rule %s: %w", value.Content[i].Value, err)
		}
		rule.Variable = value.Content[i].Value
		rules = append(rules, rule)
	}
	*s = rules
	return nil
}

// NamespaceFilter restricts a rule to a set of namespace ids. The zero value
// is unrestricted.
type NamespaceFilter struct {
	ids        []int
	restricted bool
}

// AllNamespaces returns an unrestricted filter.
func AllNamespaces() NamespaceFilter {
	return NamespaceFilter{}
}

// OnlyNamespaces returns a filter admitting exactly the given ids.
func OnlyNamespaces(ids ...int) NamespaceFilter {
	return NamespaceFilter{ids: ids, restricted: true}
}

// Allows reports whether the rule applies to namespace id.
func (f NamespaceFilter) Allows(id int) bool {
	if !f.restricted {
		return true
	}
	for _, allowed := range f.ids {
		if allowed == id {
			return true
		}
	}
	return false
}

// UnmarshalYAML accepts a single id, a list of ids, or null.
func (f *NamespaceFilter) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*f = AllNamespaces()
			return nil
		}
		var id int
		if err := value.Decode(&id); err != nil {
			return fmt.Errorf("line %d: only: %w", value.Line, err)
		}
		*f = OnlyNamespaces(id)
		return nil
	case yaml.SequenceNode:
		var ids []int
		if err := value.Decode(&ids); err != nil {
			return fmt.Errorf("line %d: only: %w", value.Line, err)
		}
		*f = OnlyNamespaces(ids...)
		return nil
	default:
		return fmt.Errorf("line %d: only must be an id or a list of ids", value.Line)
	}
}

// Override is a rule's default value: either one scalar for every namespace,
// or values keyed by namespace id with an optional "default" entry.
type Override struct {
	scalar      any
	byNamespace map[int]any
	fallback    any
	hasFallback bool
	indexed     bool
}

// ScalarOverride returns an override applying value to every namespace.
func ScalarOverride(value any) Override {
	return Override{scalar: value}
}

// IndexedOverride returns an override keyed by namespace id.
func IndexedOverride(byNamespace map[int]any) Override {
	if byNamespace == nil {
		byNamespace = map[int]any{}
	}
	return Override{byNamespace: byNamespace, indexed: true}
}

// WithDefault returns a copy of an indexed override carrying a "default" entry.
func (o Override) WithDefault(value any) Override {
	if !o.indexed {
		o = IndexedOverride(nil)
	}
	o.fallback = value
	o.hasFallback = true
	return o
}

// Indexed reports whether the override is keyed by namespace id.
func (o Override) Indexed() bool {
	return o.indexed
}

// Scalar returns the single value of a non-indexed override.
func (o Override) Scalar() any {
	return o.scalar
}

// ForNamespace returns the entry explicitly keyed by id.
func (o Override) ForNamespace(id int) (any, bool) {
	if !o.indexed {
		return nil, false
	}
	v, ok := o.byNamespace[id]
	return v, ok
}

// Default returns the "default" entry of an indexed override.
func (o Override) Default() (any, bool) {
	return o.fallback, o.hasFallback
}

// UnmarshalYAML decodes a scalar/list as a single value and a mapping as
// per-namespace entries. Null entries are treated as absent.
func (o *Override) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		var v any
		if err := value.Decode(&v); err != nil {
			return err
		}
		*o = ScalarOverride(v)
		return nil
	}

	out := IndexedOverride(nil)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, node := value.Content[i], value.Content[i+1]
		var v any
		if err := node.Decode(&v); err != nil {
			return err
		}
		if v == nil {
			continue
		}
		if key.Value == "default" {
			out.fallback = v
			out.hasFallback = true
			continue
		}
		id, err := strconv.Atoi(key.Value)
		if err != nil {
			return fmt.Errorf("line %d: overridedefault key %q is not a namespace id", key.Line, key.Value)
		}
		out.byNamespace[id] = v
	}
	*o = out
	return nil
}

// --- Permission tables ---

// RightFlag grants (true) or revokes (false) one right.
type RightFlag struct {
	Right string
	Grant bool
}

// GroupRights is the ordered list of right flags for one group.
type GroupRights struct {
	Group  string
	Rights []RightFlag
}

// RightsTable is the ordered additional-rights table.
type RightsTable []GroupRights

// Lookup returns the flags configured for group.
func (t RightsTable) Lookup(group string) (GroupRights, bool) {
	for _, g := range t {
		if g.Group == group {
			return g, true
		}
	}
	return GroupRights{}, false
}

// UnmarshalYAML decodes `group: {right: bool}` keeping document order.
// Null flags are ignored.
func (t *RightsTable) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: permissions_additional_rights must be a mapping", value.Line)
	}
	table := make(RightsTable, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		group, rights := value.Content[i], value.Content[i+1]
		if rights.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: rights for %s must be a mapping", rights.Line, group.Value)
		}
		gr := GroupRights{Group: group.Value}
		for j := 0; j+1 < len(rights.Content); j += 2 {
			var flag *bool
			if err := rights.Content[j+1].Decode(&flag); err != nil {
				return fmt.Errorf("right %s/%s: %w", group.Value, rights.Content[j].Value, err)
			}
			if flag == nil {
				continue
			}
			gr.Rights = append(gr.Rights, RightFlag{Right: rights.Content[j].Value, Grant: *flag})
		}
		table = append(table, gr)
	}
	*t = table
	return nil
}
