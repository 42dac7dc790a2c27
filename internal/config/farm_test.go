package config

import (
	"path/filepath"
	"runtime"
	"testing"
)

const testFarmYAML = `
modules: [settings, extensions, namespaces, permissions]
extensions_default: [CategoryTree, Cite]
permissions_default_private_group: member
namespaces_additional:
  wgNamespacesWithSubpages:
    type: check
    overridedefault:
      default: true
      -1: false
  wgVisualEditorAvailableNamespaces:
    type: vestyle
    only: [0, 2]
    overridedefault: false
  wgMetaNamespace:
    type: text
    constant: true
    only: 4
    overridedefault: "Project name"
permissions_additional_rights:
  user:
    edit: true
    read: false
    move: ~
  bot:
    bot: true
permissions_additional_add_groups:
  sysop: [bot]
`

func TestParseFarm_Defaults(t *testing.T) {
	farm, err := ParseFarm([]byte(`modules: [settings]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if farm.DefaultDatabase != DefaultDatabase {
		t.Errorf("expected default database %q, got %q", DefaultDatabase, farm.DefaultDatabase)
	}
	if len(farm.NamespacesAdditional) != 0 {
		t.Errorf("expected no rules, got %d", len(farm.NamespacesAdditional))
	}
}

func TestParseFarm_RulesKeepOrder(t *testing.T) {
	farm, err := ParseFarm([]byte(testFarmYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"wgNamespacesWithSubpages", "wgVisualEditorAvailableNamespaces", "wgMetaNamespace"}
	if len(farm.NamespacesAdditional) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(farm.NamespacesAdditional))
	}
	for i, name := range want {
		if farm.NamespacesAdditional[i].Variable != name {
			t.Errorf("rule %d: expected %s, got %s", i, name, farm.NamespacesAdditional[i].Variable)
		}
	}
}

func TestParseFarm_IndexedOverride(t *testing.T) {
	farm, err := ParseFarm([]byte(testFarmYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rule := farm.NamespacesAdditional[0]

	if rule.Type != RuleTypeCheck {
		t.Errorf("expected type check, got %s", rule.Type)
	}
	if !rule.OverrideDefault.Indexed() {
		t.Fatal("expected indexed override")
	}
	def, ok := rule.OverrideDefault.Default()
	if !ok || def != true {
		t.Errorf("expected default true, got %v (present=%v)", def, ok)
	}
	special, ok := rule.OverrideDefault.ForNamespace(-1)
	if !ok || special != false {
		t.Errorf("expected -1 entry false, got %v (present=%v)", special, ok)
	}
	if _, ok := rule.OverrideDefault.ForNamespace(0); ok {
		t.Error("expected no explicit entry for namespace 0")
	}
	if !rule.Only.Allows(14) {
		t.Error("expected unrestricted filter")
	}
}

func TestParseFarm_ScalarOverrideAndFilters(t *testing.T) {
	farm, err := ParseFarm([]byte(testFarmYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ve := farm.NamespacesAdditional[1]
	if ve.OverrideDefault.Indexed() {
		t.Error("expected scalar override")
	}
	if ve.OverrideDefault.Scalar() != false {
		t.Errorf("expected scalar false, got %v", ve.OverrideDefault.Scalar())
	}
	if !ve.Only.Allows(2) || ve.Only.Allows(4) {
		t.Error("expected filter to admit only 0 and 2")
	}

	meta := farm.NamespacesAdditional[2]
	if !meta.Constant {
		t.Error("expected constant rule")
	}
	if !meta.Only.Allows(4) || meta.Only.Allows(5) {
		t.Error("expected scalar filter to admit only 4")
	}
}

func TestParseFarm_RightsTable(t *testing.T) {
	farm, err := ParseFarm([]byte(testFarmYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, ok := farm.PermissionsAdditionalRights.Lookup("user")
	if !ok {
		t.Fatal("expected user group in rights table")
	}
	if len(user.Rights) != 2 {
		t.Fatalf("expected null flag to be dropped, got %+v", user.Rights)
	}
	if user.Rights[0] != (RightFlag{Right: "edit", Grant: true}) {
		t.Errorf("unexpected first flag %+v", user.Rights[0])
	}
	if user.Rights[1] != (RightFlag{Right: "read", Grant: false}) {
		t.Errorf("unexpected second flag %+v", user.Rights[1])
	}
	if farm.PermissionsAdditionalRights[1].Group != "bot" {
		t.Errorf("expected bot second, got %s", farm.PermissionsAdditionalRights[1].Group)
	}
	if got := farm.PermissionsAdditionalAddGroups["sysop"]; len(got) != 1 || got[0] != "bot" {
		t.Errorf("unexpected add groups %v", got)
	}
}

func TestParseFarm_RejectsBadOverrideKey(t *testing.T) {
	_, err := ParseFarm([]byte(`
namespaces_additional:
  wgFoo:
    overridedefault:
      main: 1
`))
	if err == nil {
		t.Fatal("expected error for non-numeric override key")
	}
}

func TestParseFarm_RejectsNonBoolRight(t *testing.T) {
	_, err := ParseFarm([]byte(`
permissions_additional_rights:
  user:
    edit: sometimes
`))
	if err == nil {
		t.Fatal("expected error for non-boolean right flag")
	}
}

func TestOverride_WithDefault(t *testing.T) {
	o := IndexedOverride(map[int]any{1: "A"}).WithDefault("B")
	if v, ok := o.ForNamespace(1); !ok || v != "A" {
		t.Errorf("expected A for namespace 1, got %v", v)
	}
	if v, ok := o.Default(); !ok || v != "B" {
		t.Errorf("expected default B, got %v", v)
	}
}

// TestLoadFarm_SampleFile keeps the shipped managewiki.yaml loadable.
func TestLoadFarm_SampleFile(t *testing.T) {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "managewiki.yaml")

	farm, err := LoadFarm(path)
	if err != nil {
		t.Fatalf("loading sample farm: %v", err)
	}
	if farm.PermissionsDefaultPrivateGroup != "member" {
		t.Errorf("expected member private group, got %q", farm.PermissionsDefaultPrivateGroup)
	}
	if _, ok := farm.PermissionsAdditionalRights.Lookup("*"); !ok {
		t.Error("expected rights for *")
	}
	if len(farm.NamespacesAdditional) != 4 || farm.NamespacesAdditional[3].Variable != "wgMetaNamespace" {
		t.Errorf("unexpected rules %+v", farm.NamespacesAdditional)
	}
	if !farm.NamespacesAdditional[3].Constant || !farm.NamespacesAdditional[3].Only.Allows(4) || farm.NamespacesAdditional[3].Only.Allows(0) {
		t.Errorf("unexpected meta namespace rule %+v", farm.NamespacesAdditional[3])
	}
}
