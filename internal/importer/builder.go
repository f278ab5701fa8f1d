package importer

import (
	"fmt"
	"time"

	"checkin-importer/internal/matching"
	"checkin-importer/internal/models"
	"checkin-importer/internal/normalize"
	"checkin-importer/internal/sheet"
)

// Builder turns raw rows into check-in records. It is built once per run,
// after the column map and person index exist.
type Builder struct {
	cols     sheet.ColumnMap
	matcher  *matching.Matcher
	weather  *normalize.WeatherMapper
	support  *SupportResolver
	sourceID string
	batchID  string
	clock    Clock
	ids      IDGen
}

type BuilderOption func(*Builder)

func WithClock(c Clock) BuilderOption {
	return func(b *Builder) { b.clock = c }
}

func WithIDGen(g IDGen) BuilderOption {
	return func(b *Builder) { b.ids = g }
}

func NewBuilder(cols sheet.ColumnMap, matcher *matching.Matcher, weather *normalize.WeatherMapper, support *SupportResolver, sourceID, batchID string, opts ...BuilderOption) *Builder {
	b := &Builder{
		cols:     cols,
		matcher:  matcher,
		weather:  weather,
		support:  support,
		sourceID: sourceID,
		batchID:  batchID,
		clock:    realClock{},
		ids:      newULIDGen(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns a record or the reason the row is skipped. The person is
// resolved before any value is coerced, so an unknown person always wins
// over a bad score.
func (b *Builder) Build(row models.RawRow) (*models.CheckIn, models.SkipReason, error) {
	email := normalize.Text(b.cell(row, sheet.FieldEmail))
	name := normalize.Text(b.cell(row, sheet.FieldName))

	match := b.matcher.Resolve(email, name)
	if !match.Found() {
		return nil, models.SkipNoUser, nil
	}

	at, ok := normalize.CoerceDate(b.cell(row, sheet.FieldTimestamp))
	if !ok {
		return nil, models.SkipMissingRequired, nil
	}
	presence, ok := normalize.CoerceScore(b.cell(row, sheet.FieldPresence))
	if !ok {
		return nil, models.SkipMissingRequired, nil
	}
	capacity, ok := normalize.CoerceScore(b.cell(row, sheet.FieldCapacity))
	if !ok {
		return nil, models.SkipMissingRequired, nil
	}
	at = at.Truncate(time.Millisecond)

	now := b.clock.Now().UTC()
	id, err := b.ids.New(now)
	if err != nil {
		return nil, models.SkipNone, fmt.Errorf("row %d: generate id: %w", row.Number, err)
	}

	rec := &models.CheckIn{
		ID:            id,
		PersonID:      match.Person.ID,
		EventDate:     at,
		SubmittedAt:   at,
		Weather:       string(b.weather.Map(b.cell(row, sheet.FieldWeather))),
		Moods:         normalize.ParseMoods(b.cell(row, sheet.FieldMoods)),
		Presence:      presence,
		Capacity:      capacity,
		Source:        b.sourceID,
		ImportBatchID: b.batchID,
		ImportedAt:    now,
	}
	if note, ok := normalize.SanitizeText(b.cell(row, sheet.FieldDetails)); ok {
		rec.Note = &note
	}
	if b.cols.Has(sheet.FieldSupport) {
		contact := b.support.Resolve(b.cell(row, sheet.FieldSupport))
		rec.SupportPersonID = contact.PersonID
		rec.SupportLabel = contact.Label
	}
	return rec, models.SkipNone, nil
}

// Diagnose describes a row whose person could not be resolved.
func (b *Builder) Diagnose(row models.RawRow) models.UnmatchedRow {
	return models.UnmatchedRow{
		Row:   row.Number,
		Name:  normalize.Text(b.cell(row, sheet.FieldName)),
		Email: normalize.Text(b.cell(row, sheet.FieldEmail)),
	}
}

func (b *Builder) cell(row models.RawRow, f sheet.Field) any {
	return row.Get(b.cols.Header(f))
}
