package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"checkin-importer/internal/matching"
	"checkin-importer/internal/models"
	"checkin-importer/internal/normalize"
	"checkin-importer/internal/sheet"
	"checkin-importer/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var headers = []string{
	"Timestamp",
	"Email Address",
	"Your name",
	"How are you feeling today?",
	"Any details you want to share?",
	"What's your weather today?",
	"Presence (1-10)",
	"Capacity (1-10)",
	"Who would you like support from?",
}

var importedAt = time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDs struct{ n int }

func (g *seqIDs) New(_ time.Time) (string, error) {
	g.n++
	return fmt.Sprintf("rec-%03d", g.n), nil
}

type failingIDs struct{}

func (failingIDs) New(_ time.Time) (string, error) { return "", errors.New("entropy exhausted") }

func people() []models.Person {
	return []models.Person{
		{ID: "u1", Name: "Abu Bakar Ali", Email: "abu.ali@school.test", Role: models.RoleStudent},
		{ID: "u2", Name: "Abu Bakar Santoso", Email: "abu.santoso@school.test", Role: models.RoleStudent},
		{ID: "u3", Name: "Dr. Sarah Lee", Email: "sarah.lee@school.test", Role: models.RoleCounselor},
		{ID: "u4", Name: "Rizki Amelia", Email: "rizki@school.test", Role: models.RoleStudent},
		{ID: "u5", Name: "Pak Budi Hartono", Email: "budi@school.test", Role: models.RoleTeacher},
		{ID: "u6", Name: "Dewi Lestari", Email: "dewi@home.test", Role: models.RoleParent},
	}
}

func newMatcher() *matching.Matcher {
	return matching.NewMatcher(matching.NewPersonIndex(people(), matching.DefaultHonorifics()))
}

func newResolver(cache *testutil.MockCache) *SupportResolver {
	return NewSupportResolver(newMatcher(), DefaultSupportRoles(), DefaultGenericSupportKeywords(), cache)
}

func newBuilder(t *testing.T, hdrs []string, opts ...BuilderOption) *Builder {
	t.Helper()
	cols, err := sheet.DiscoverColumns(hdrs, sheet.DefaultFieldPatterns())
	require.NoError(t, err)
	opts = append([]BuilderOption{WithClock(fixedClock{importedAt}), WithIDGen(&seqIDs{})}, opts...)
	return NewBuilder(cols, newMatcher(), normalize.MustWeatherMapper(normalize.DefaultWeatherRules()),
		newResolver(testutil.NewMockCache()), "legacy-2023", "batch-1", opts...)
}

func row(cells ...any) models.RawRow {
	aligned := make([]any, len(headers))
	copy(aligned, cells)
	return models.RawRow{Number: 2, Headers: headers, Cells: aligned}
}

func TestSupportResolver_GenericLabelNeverResolves(t *testing.T) {
	r := newResolver(testutil.NewMockCache())
	for _, label := range []string{"my mentor", "My Mentor Pak Budi", "Orang tua", "Diri sendiri"} {
		c := r.Resolve(label)
		assert.Nil(t, c.PersonID, label)
		require.NotNil(t, c.Label, label)
		assert.Equal(t, label, *c.Label)
	}
}

func TestSupportResolver_ResolvesSupportRole(t *testing.T) {
	r := newResolver(testutil.NewMockCache())

	c := r.Resolve("Pak Budi")
	require.NotNil(t, c.PersonID)
	assert.Equal(t, "u5", *c.PersonID)
	assert.Nil(t, c.Label)

	c = r.Resolve("Bu Sarah")
	require.NotNil(t, c.PersonID)
	assert.Equal(t, "u3", *c.PersonID)
}

func TestSupportResolver_NonSupportRoleKeepsLabel(t *testing.T) {
	c := newResolver(testutil.NewMockCache()).Resolve("Dewi Lestari")
	assert.Nil(t, c.PersonID)
	require.NotNil(t, c.Label)
	assert.Equal(t, "Dewi Lestari", *c.Label)
}

func TestSupportResolver_UnresolvedKeepsLabel(t *testing.T) {
	c := newResolver(testutil.NewMockCache()).Resolve("  Mr. Zed Quill ")
	assert.Nil(t, c.PersonID)
	require.NotNil(t, c.Label)
	assert.Equal(t, "Mr. Zed Quill", *c.Label)
}

func TestSupportResolver_Blank(t *testing.T) {
	r := newResolver(testutil.NewMockCache())
	assert.True(t, r.Resolve("   ").IsZero())
	assert.True(t, r.Resolve(nil).IsZero())
}

func TestSupportResolver_UsesCache(t *testing.T) {
	cache := testutil.NewMockCache()
	r := newResolver(cache)

	first := r.Resolve("Pak Budi")
	second := r.Resolve("pak budi")
	assert.Equal(t, 1, cache.Hits)
	require.NotNil(t, second.PersonID)
	assert.Equal(t, *first.PersonID, *second.PersonID)

	r.Resolve("my mentor")
	r.Resolve("my mentor")
	assert.Equal(t, 2, cache.Hits)
}

func TestBuilder_BuildsRecord(t *testing.T) {
	b := newBuilder(t, headers)
	rec, reason, err := b.Build(row(45292.5, "", "Abu Bakar Ali", "Happy, happy, EXCITED/senang",
		"  Had a long day  ", "Thunderstorm later", "7.4", 11.0, "my mentor"))
	require.NoError(t, err)
	require.Equal(t, models.SkipNone, reason)

	assert.Equal(t, "rec-001", rec.ID)
	assert.Equal(t, "u1", rec.PersonID)
	want := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, want, rec.EventDate)
	assert.Equal(t, want, rec.SubmittedAt)
	assert.Equal(t, string(normalize.WeatherStormy), rec.Weather)
	assert.Equal(t, []string{"Happy", "Excited"}, rec.Moods)
	require.NotNil(t, rec.Note)
	assert.Equal(t, "Had a long day", *rec.Note)
	assert.Equal(t, 7, rec.Presence)
	assert.Equal(t, 10, rec.Capacity)
	assert.Nil(t, rec.SupportPersonID)
	require.NotNil(t, rec.SupportLabel)
	assert.Equal(t, "my mentor", *rec.SupportLabel)
	assert.Equal(t, "legacy-2023", rec.Source)
	assert.Equal(t, "batch-1", rec.ImportBatchID)
	assert.Equal(t, importedAt, rec.ImportedAt)
}

func TestBuilder_OptionalFieldsFallBack(t *testing.T) {
	b := newBuilder(t, headers)
	rec, reason, err := b.Build(row(45292.0, "", "Rizki Amelia", nil, "   ", "??", 5.0, "6"))
	require.NoError(t, err)
	require.Equal(t, models.SkipNone, reason)
	assert.Equal(t, string(normalize.WeatherUnknown), rec.Weather)
	assert.NotNil(t, rec.Moods)
	assert.Empty(t, rec.Moods)
	assert.Nil(t, rec.Note)
	assert.Nil(t, rec.SupportPersonID)
	assert.Nil(t, rec.SupportLabel)
}

func TestBuilder_SupportPersonReference(t *testing.T) {
	b := newBuilder(t, headers)
	rec, _, err := b.Build(row(45292.0, "", "Rizki Amelia", "", "", "", 5.0, 6.0, "Pak Budi"))
	require.NoError(t, err)
	require.NotNil(t, rec.SupportPersonID)
	assert.Equal(t, "u5", *rec.SupportPersonID)
	assert.Nil(t, rec.SupportLabel)
}

func TestBuilder_EmailTakesPrecedence(t *testing.T) {
	b := newBuilder(t, headers)
	rec, _, err := b.Build(row(45292.0, "SARAH.LEE@school.test", "Abu Bakar Ali", "", "", "", 5.0, 6.0))
	require.NoError(t, err)
	assert.Equal(t, "u3", rec.PersonID)
}

func TestBuilder_NoUser(t *testing.T) {
	b := newBuilder(t, headers)
	rec, reason, err := b.Build(row(45292.0, "", "Abu Bakar", "", "", "", 5.0, 6.0))
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, models.SkipNoUser, reason)
}

func TestBuilder_NoUserBeatsMissingRequired(t *testing.T) {
	b := newBuilder(t, headers)
	_, reason, err := b.Build(row(nil, "", "Somebody Else", "", "", "", "n/a", nil))
	require.NoError(t, err)
	assert.Equal(t, models.SkipNoUser, reason)
}

func TestBuilder_MissingRequired(t *testing.T) {
	b := newBuilder(t, headers)
	cases := map[string]models.RawRow{
		"timestamp": row(nil, "", "Rizki Amelia", "", "", "", 5.0, 6.0),
		"bad date":  row("not a date", "", "Rizki Amelia", "", "", "", 5.0, 6.0),
		"presence":  row(45292.0, "", "Rizki Amelia", "", "", "", "n/a", 6.0),
		"capacity":  row(45292.0, "", "Rizki Amelia", "", "", "", 5.0, ""),
	}
	for name, r := range cases {
		rec, reason, err := b.Build(r)
		require.NoError(t, err, name)
		assert.Nil(t, rec, name)
		assert.Equal(t, models.SkipMissingRequired, reason, name)
	}
}

func TestBuilder_WithoutSupportColumn(t *testing.T) {
	b := newBuilder(t, headers[:8])
	rec, _, err := b.Build(row(45292.0, "", "Rizki Amelia", "", "", "", 5.0, 6.0, "my mentor"))
	require.NoError(t, err)
	assert.Nil(t, rec.SupportLabel)
	assert.Nil(t, rec.SupportPersonID)
}

func TestBuilder_TruncatesLongNote(t *testing.T) {
	b := newBuilder(t, headers)
	rec, _, err := b.Build(row(45292.0, "", "Rizki Amelia", "", strings.Repeat("a", 600), "", 5.0, 6.0))
	require.NoError(t, err)
	require.NotNil(t, rec.Note)
	assert.Len(t, []rune(*rec.Note), normalize.MaxNoteLength)
	assert.True(t, strings.HasSuffix(*rec.Note, "..."))
}

func TestBuilder_IDGenFailure(t *testing.T) {
	b := newBuilder(t, headers, WithIDGen(failingIDs{}))
	_, _, err := b.Build(row(45292.0, "", "Rizki Amelia", "", "", "", 5.0, 6.0))
	assert.Error(t, err)
}

func TestBuilder_Diagnose(t *testing.T) {
	b := newBuilder(t, headers)
	d := b.Diagnose(row(45292.0, " who@else.test ", " Abu Bakar "))
	assert.Equal(t, models.UnmatchedRow{Row: 2, Name: "Abu Bakar", Email: "who@else.test"}, d)
}

func TestULIDGen_Monotonic(t *testing.T) {
	g := newULIDGen()
	a, err := g.New(importedAt)
	require.NoError(t, err)
	b, err := g.New(importedAt)
	require.NoError(t, err)
	assert.Len(t, a, 26)
	assert.Less(t, a, b)
}

func TestNewBatchID(t *testing.T) {
	assert.NotEqual(t, NewBatchID(), NewBatchID())
	assert.Len(t, NewBatchID(), 36)
}

func checkIn(id, person string, at time.Time) *models.CheckIn {
	return &models.CheckIn{ID: id, PersonID: person, EventDate: at, SubmittedAt: at}
}

func TestWriter_InsertsAndGuardsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMockStore()
	at := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	store.Existing[models.KeyOf("u2", at)] = true

	w := NewWriter(store, &testutil.MockLogger{}, false, 1)

	out, err := w.Write(ctx, checkIn("a", "u1", at))
	require.NoError(t, err)
	assert.Equal(t, OutcomeInserted, out)

	out, err = w.Write(ctx, checkIn("b", "u1", at))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, out, "repeated within the run")

	out, err = w.Write(ctx, checkIn("c", "u2", at))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, out, "already stored")

	require.Len(t, store.Inserted, 1)
	assert.Equal(t, "a", store.Inserted[0].ID)
	assert.Equal(t, 2, store.ExistsCalls)
}

func TestWriter_DryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMockStore()
	at := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	w := NewWriter(store, &testutil.MockLogger{}, true, 1)

	out, err := w.Write(ctx, checkIn("a", "u1", at))
	require.NoError(t, err)
	assert.Equal(t, OutcomeInserted, out)

	out, err = w.Write(ctx, checkIn("b", "u1", at))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, out)

	require.NoError(t, w.Flush(ctx))
	assert.Empty(t, store.Inserted)
	assert.Zero(t, store.InsertCalls+store.InsertManyCalls)
}

func TestWriter_ConflictOnInsertIsDuplicate(t *testing.T) {
	store := testutil.NewMockStore()
	at := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	store.Stale[models.KeyOf("u1", at)] = true
	logger := &testutil.MockLogger{}

	out, err := NewWriter(store, logger, false, 1).Write(context.Background(), checkIn("a", "u1", at))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, out)
	assert.Len(t, logger.ByLevel("warn"), 1)
}

func TestWriter_Batches(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMockStore()
	base := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	w := NewWriter(store, &testutil.MockLogger{}, false, 2)

	for i := 0; i < 5; i++ {
		out, err := w.Write(ctx, checkIn(fmt.Sprintf("r%d", i), "u1", base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
		assert.Equal(t, OutcomeInserted, out)
	}
	assert.Equal(t, 2, store.InsertManyCalls)
	assert.Equal(t, 1, w.Pending())

	require.NoError(t, w.Flush(ctx))
	assert.Equal(t, 3, store.InsertManyCalls)
	assert.Zero(t, w.Pending())

	var ids []string
	for _, r := range store.Inserted {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"r0", "r1", "r2", "r3", "r4"}, ids)
	assert.Zero(t, w.Conflicts())
}

func TestWriter_BatchConflictsCounted(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMockStore()
	at := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	store.Stale[models.KeyOf("u2", at)] = true
	w := NewWriter(store, &testutil.MockLogger{}, false, 10)

	_, err := w.Write(ctx, checkIn("a", "u1", at))
	require.NoError(t, err)
	_, err = w.Write(ctx, checkIn("b", "u2", at))
	require.NoError(t, err)
	require.NoError(t, w.Flush(ctx))

	assert.Equal(t, 1, w.Conflicts())
	assert.Len(t, store.Inserted, 1)
}

func TestWriter_StoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)

	store := testutil.NewMockStore()
	store.ExistsErr = errors.New("connection lost")
	_, err := NewWriter(store, &testutil.MockLogger{}, false, 1).Write(ctx, checkIn("a", "u1", at))
	assert.Error(t, err)

	store = testutil.NewMockStore()
	store.InsertErr = errors.New("connection lost")
	w := NewWriter(store, &testutil.MockLogger{}, false, 5)
	_, err = w.Write(ctx, checkIn("a", "u1", at))
	require.NoError(t, err)
	assert.Error(t, w.Flush(ctx))
}
