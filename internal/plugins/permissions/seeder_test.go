package permissions

import (
	"context"
	"sort"
	"testing"
)

// memoryRepo is a PermissionRepository that keeps saved rows, so successive
// modules observe each other's commits.
type memoryRepo struct {
	rows  map[string]map[string]PermissionGroupRow
	saves int
}

func newMemoryRepo(seed map[string][]PermissionGroupRow) *memoryRepo {
	r := &memoryRepo{rows: map[string]map[string]PermissionGroupRow{}}
	for wiki, rows := range seed {
		r.Save(context.Background(), wiki, rows, nil)
	}
	r.saves = 0
	return r
}

func (r *memoryRepo) ListRaw(ctx context.Context, wiki string) ([]RawPermissionRow, error) {
	var out []RawPermissionRow
	for _, row := range r.rows[wiki] {
		raw := RawPermissionRow{Group: row.Group}
		raw.Permissions, _ = encodeList(row.Permissions)
		raw.AddGroups, _ = encodeList(row.AddGroups)
		raw.RemoveGroups, _ = encodeList(row.RemoveGroups)
		raw.AddGroupsToSelf, _ = encodeList(row.AddGroupsToSelf)
		raw.RemoveGroupsFromSelf, _ = encodeList(row.RemoveGroupsFromSelf)
		raw.Autopromote, _ = encodeAutopromote(row.Autopromote)
		out = append(out, raw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out, nil
}

func (r *memoryRepo) Save(ctx context.Context, wiki string, upserts []PermissionGroupRow, deletes []string) error {
	r.saves++
	if r.rows[wiki] == nil {
		r.rows[wiki] = map[string]PermissionGroupRow{}
	}
	for _, row := range upserts {
		r.rows[wiki][row.Group] = row
	}
	for _, group := range deletes {
		delete(r.rows[wiki], group)
	}
	return nil
}

func templateSeed() map[string][]PermissionGroupRow {
	return map[string][]PermissionGroupRow{
		"default": {
			{Group: "*", Permissions: []string{"read", "createaccount"}},
			{Group: "sysop", Permissions: []string{"delete"}, AddGroups: []string{"bot"}},
			{Group: "user", Permissions: []string{"edit"}},
		},
	}
}

func TestSeedDefaults_CopiesTemplate(t *testing.T) {
	repo := newMemoryRepo(templateSeed())
	s := NewSeeder(NewRegistry(repo, "default"), "member")

	if err := s.SeedDefaults(context.Background(), "newwiki", false); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if got := len(repo.rows["newwiki"]); got != 3 {
		t.Fatalf("expected 3 groups, got %d", got)
	}
	if _, ok := repo.rows["newwiki"]["member"]; ok {
		t.Error("public seeding must not add the private group")
	}
	if repo.saves != 1 {
		t.Errorf("expected one commit, got %d", repo.saves)
	}
}

func TestSeedDefaults_PrivateAddsPrivateGroup(t *testing.T) {
	repo := newMemoryRepo(templateSeed())
	s := NewSeeder(NewRegistry(repo, "default"), "member")

	if err := s.SeedDefaults(context.Background(), "newwiki", true); err != nil {
		t.Fatalf("seed: %v", err)
	}
	member, ok := repo.rows["newwiki"]["member"]
	if !ok {
		t.Fatal("expected private group to be created")
	}
	if len(member.Permissions) != 1 || member.Permissions[0] != "read" {
		t.Errorf("expected read right, got %v", member.Permissions)
	}
	sysop := repo.rows["newwiki"]["sysop"]
	if len(sysop.AddGroups) != 2 || sysop.AddGroups[0] != "bot" || sysop.AddGroups[1] != "member" {
		t.Errorf("expected sysop to add bot and member, got %v", sysop.AddGroups)
	}
	if len(sysop.RemoveGroups) != 1 || sysop.RemoveGroups[0] != "member" {
		t.Errorf("expected sysop to remove member, got %v", sysop.RemoveGroups)
	}
	if got := repo.rows["default"]["sysop"].AddGroups; len(got) != 1 {
		t.Errorf("template must stay untouched, got %v", got)
	}
}

func TestSeedPrivateDefaults_UsesTemplateRow(t *testing.T) {
	repo := newMemoryRepo(map[string][]PermissionGroupRow{
		"default": {{Group: "member", Permissions: []string{"read", "edit"}}},
	})
	s := NewSeeder(NewRegistry(repo, "default"), "member")

	if err := s.SeedPrivateDefaults(context.Background(), "examplewiki"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if got := repo.rows["examplewiki"]["member"].Permissions; len(got) != 2 || got[1] != "edit" {
		t.Errorf("expected template rights, got %v", got)
	}
}

func TestSeedPrivateDefaults_NoGroupConfigured(t *testing.T) {
	repo := newMemoryRepo(templateSeed())
	s := NewSeeder(NewRegistry(repo, "default"), "")

	if err := s.SeedPrivateDefaults(context.Background(), "examplewiki"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if repo.saves != 0 {
		t.Errorf("expected no writes, got %d", repo.saves)
	}
}

func TestSeedPrivateDefaults_Idempotent(t *testing.T) {
	seed := templateSeed()
	seed["examplewiki"] = []PermissionGroupRow{
		{Group: "sysop", AddGroups: []string{"member"}, RemoveGroups: []string{"member"}},
	}
	repo := newMemoryRepo(seed)
	s := NewSeeder(NewRegistry(repo, "default"), "member")

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := s.SeedPrivateDefaults(ctx, "examplewiki"); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	sysop := repo.rows["examplewiki"]["sysop"]
	if len(sysop.AddGroups) != 1 || len(sysop.RemoveGroups) != 1 {
		t.Errorf("expected no duplicate entries, got %+v", sysop)
	}
}

func TestAppendUnique(t *testing.T) {
	got := appendUnique([]string{"a", "b"}, "b", "c", "c")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
