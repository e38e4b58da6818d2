package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymledger/pkg/domain"
)

// testEnv points the CLI at a fresh filesystem store and isolates it from
// any GYM_* variables or .env file of the developer.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("GYM_STORAGE_DRIVER", "fs")
	t.Setenv("GYM_FS_ROOT", filepath.Join(dir, "data"))
	t.Setenv("GYM_LOG_LEVEL", "error")
	for _, key := range []string{"GYM_KEY_PREFIX", "GYM_ID_STRATEGY", "GYM_SEED_FILE", "GYM_S3_BUCKET"} {
		t.Setenv(key, "")
	}
	return dir
}

type result struct {
	stdout string
	stderr string
	code   int
}

func runCLI(t *testing.T, dir string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--env-file", filepath.Join(dir, "missing.env")}, args...)
	code := run(context.Background(), args, &stdout, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func runJSON[T any](t *testing.T, dir string, args ...string) T {
	t.Helper()
	res := runCLI(t, dir, append(args, "-o", "json")...)
	require.Equal(t, 0, res.code, "stderr: %s stdout: %s", res.stderr, res.stdout)
	var out T
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out), res.stdout)
	return out
}

func TestSeedCommandIsIdempotent(t *testing.T) {
	dir := testEnv(t)

	first := runJSON[map[string]bool](t, dir, "seed")
	assert.True(t, first["seeded"])
	second := runJSON[map[string]bool](t, dir, "seed")
	assert.False(t, second["seeded"])

	products := runJSON[[]domain.Product](t, dir, "product", "list")
	require.Len(t, products, 4)
	assert.Equal(t, "Whey Protein", products[0].Name)
	members := runJSON[[]domain.Member](t, dir, "member", "list")
	assert.Empty(t, members)
}

func TestMemberLifecycleWithCourseCleanup(t *testing.T) {
	dir := testEnv(t)

	saved := runJSON[domain.Member](t, dir, "member", "save", "--id", "m1", "--name", "Ana",
		"--age", "30", "--height", "170", "--weight", "65", "--course", "1,2", "--diet-plan", "3")
	assert.Equal(t, []string{"1", "2"}, saved.Courses)
	assert.False(t, saved.CreatedAt.IsZero())

	// An update changes only the given flags.
	updated := runJSON[domain.Member](t, dir, "member", "save", "--id", "m1", "--weight", "63.5")
	assert.Equal(t, "Ana", updated.Name)
	assert.Equal(t, 63.5, updated.Weight)
	assert.True(t, updated.CreatedAt.Equal(saved.CreatedAt))

	profile := runJSON[domain.MemberProfile](t, dir, "member", "profile", "m1")
	assert.Equal(t, []string{"Yoga", "CrossFit"}, profile.CourseNames)
	assert.Equal(t, []string{"Balanced"}, profile.DietPlanNames)

	removed := runJSON[map[string]bool](t, dir, "course", "remove", "1")
	assert.True(t, removed["removed"])
	got := runJSON[domain.Member](t, dir, "member", "get", "m1")
	assert.Equal(t, []string{"2"}, got.Courses)

	found := runJSON[[]domain.Member](t, dir, "member", "search", "AN")
	require.Len(t, found, 1)
	assert.Equal(t, "m1", found[0].ID)

	again := runJSON[map[string]bool](t, dir, "course", "remove", "1")
	assert.False(t, again["removed"])
}

func TestSaleRecordDecrementsStock(t *testing.T) {
	dir := testEnv(t)

	runJSON[domain.Product](t, dir, "product", "save", "--id", "p1", "--name", "Protein", "--quantity", "10", "--price", "50")
	sale := runJSON[domain.Sale](t, dir, "sale", "record", "p1", "3", "--buyer", "Ana")
	assert.Equal(t, 150.0, sale.TotalPrice)
	assert.Equal(t, "Protein", sale.ProductName)
	assert.NotEmpty(t, sale.ID)

	product := runJSON[domain.Product](t, dir, "product", "get", "p1")
	assert.Equal(t, 7, product.Quantity)

	byProduct := runJSON[[]domain.Sale](t, dir, "sale", "list", "--product", "p1")
	require.Len(t, byProduct, 1)
	assert.Equal(t, sale.ID, byProduct[0].ID)

	res := runCLI(t, dir, "sale", "record", "p1", "8")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "insufficient stock")

	res = runCLI(t, dir, "sale", "record", "p1", "8", "-o", "json")
	assert.Equal(t, 1, res.code)
	var errObj map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &errObj))
	assert.Contains(t, errObj["error"], "available 7")

	product = runJSON[domain.Product](t, dir, "product", "get", "p1")
	assert.Equal(t, 7, product.Quantity)
}

func TestProductValidationError(t *testing.T) {
	dir := testEnv(t)
	res := runCLI(t, dir, "product", "save", "--id", "bad", "--name", "Free", "--quantity", "1", "--price", "0")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "price")
}

func TestSessionCommands(t *testing.T) {
	dir := testEnv(t)

	state := runJSON[domain.AuthSession](t, dir, "session", "status")
	assert.False(t, state.IsAuthenticated)

	state = runJSON[domain.AuthSession](t, dir, "session", "login")
	assert.True(t, state.IsAuthenticated)
	require.NotNil(t, state.LoginTime)

	state = runJSON[domain.AuthSession](t, dir, "session", "status")
	assert.True(t, state.IsAuthenticated)

	runJSON[domain.AuthSession](t, dir, "session", "logout")
	state = runJSON[domain.AuthSession](t, dir, "session", "status")
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.LoginTime)
}

func TestResetRequiresConfirmation(t *testing.T) {
	dir := testEnv(t)
	runJSON[domain.Course](t, dir, "course", "save", "--id", "c9", "--name", "Boxing")

	res := runCLI(t, dir, "reset")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "--yes")

	runJSON[map[string]bool](t, dir, "reset", "--yes")
	entries, err := os.ReadDir(filepath.Join(dir, "data"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	courses := runJSON[[]domain.Course](t, dir, "course", "list")
	require.Len(t, courses, 4)
	for _, c := range courses {
		assert.NotEqual(t, "c9", c.ID)
	}
}

func TestTableOutput(t *testing.T) {
	dir := testEnv(t)
	res := runCLI(t, dir, "diet-plan", "list")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "ID")
	assert.Contains(t, res.stdout, "DESCRIPTION")
	assert.Contains(t, res.stdout, "Weight Loss")
	assert.Contains(t, res.stdout, "MEMBERS")

	res = runCLI(t, dir, "session", "status")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "AUTHENTICATED")
	assert.Contains(t, res.stdout, "no")
}

func TestMetricsCommand(t *testing.T) {
	dir := testEnv(t)
	res := runCLI(t, dir, "metrics")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, `gymledger_operations_total{operation="store.seed",status="ok"} 1`)

	// A second run starts from a fresh registry: the seed check counts once again.
	res = runCLI(t, dir, "metrics")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, `gymledger_operations_total{operation="store.seed",status="ok"} 1`)
	assert.Contains(t, newMetricsCmd(&app{}).Long, "fresh registry")
}

func TestCustomSeedFile(t *testing.T) {
	dir := testEnv(t)
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("courses:\n  - id: k1\n    name: Kettlebells\n"), 0o600))
	t.Setenv("GYM_SEED_FILE", path)

	courses := runJSON[[]domain.Course](t, dir, "course", "list")
	require.Len(t, courses, 1)
	assert.Equal(t, "Kettlebells", courses[0].Name)
}

func TestErrors(t *testing.T) {
	dir := testEnv(t)

	res := runCLI(t, dir, "member", "get", "ghost")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, `"ghost" not found`)

	res = runCLI(t, dir, "course", "list", "-o", "yaml")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "unsupported output format")

	res = runCLI(t, dir, "member", "save", "--name", "NoID")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "id")

	res = runCLI(t, dir, "sale", "record", "1", "many")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "invalid quantity")

	t.Setenv("GYM_STORAGE_DRIVER", "floppy")
	res = runCLI(t, dir, "course", "list")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "GYM_STORAGE_DRIVER")
}

func TestEnvFileIsRead(t *testing.T) {
	dir := testEnv(t)
	os.Unsetenv("GYM_KEY_PREFIX")
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("GYM_KEY_PREFIX=club_\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--env-file", envFile, "seed"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	_, err := os.Stat(filepath.Join(dir, "data", "club_courses"))
	assert.NoError(t, err)
}

func TestCourseListShowsMemberCounts(t *testing.T) {
	dir := testEnv(t)
	runJSON[domain.Member](t, dir, "member", "save", "--id", "m1", "--name", "Ana", "--course", "1,2")
	runJSON[domain.Member](t, dir, "member", "save", "--id", "m2", "--name", "Bia", "--course", "1")

	res := runCLI(t, dir, "course", "list")
	require.Equal(t, 0, res.code, res.stderr)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "MEMBERS", lastField(lines[0]))
	counts := map[string]string{}
	for _, line := range lines[1:] {
		counts[strings.Fields(line)[0]] = lastField(line)
	}
	assert.Equal(t, map[string]string{"1": "2", "2": "1", "3": "0", "4": "0"}, counts)

	// JSON keeps the stored record shape.
	courses := runJSON[[]map[string]any](t, dir, "course", "list")
	require.Len(t, courses, 4)
	assert.NotContains(t, courses[0], "members")
}

func lastField(line string) string {
	fields := strings.Fields(line)
	return fields[len(fields)-1]
}

func TestSaleRowsCannotBeRemovedFromCLI(t *testing.T) {
	dir := testEnv(t)
	sale := runJSON[domain.Sale](t, dir, "sale", "record", "1", "1", "--buyer", "Ana")

	found, _, err := newRootCmd(io.Discard, io.Discard).Find([]string{"sale", "remove", sale.ID})
	require.NoError(t, err)
	assert.Equal(t, "sale", found.Name())
	for _, sub := range found.Commands() {
		assert.NotEqual(t, "remove", sub.Name())
	}

	runCLI(t, dir, "sale", "remove", sale.ID)
	sales := runJSON[[]domain.Sale](t, dir, "sale", "list")
	require.Len(t, sales, 1)
	assert.Equal(t, sale.ID, sales[0].ID)
}
