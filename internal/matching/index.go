package matching

import (
	"checkin-importer/internal/models"

	"github.com/RoaringBitmap/roaring/v2"
)

// PersonIndex is built once per run and only read afterwards.
type PersonIndex struct {
	honorifics Honorifics

	byEmail    map[string]*models.Person
	byFullName map[string]*models.Person
	byStripped map[string]*models.Person
	// byToken maps a token to the ordinals (registry positions) of the
	// people carrying it.
	byToken map[string]*roaring.Bitmap
	people  []*models.Person

	Stats IndexStats
}

type IndexStats struct {
	People       int `json:"people"`
	Emails       int `json:"emails"`
	FullNames    int `json:"full_names"`
	StrippedKeys int `json:"stripped_keys"`
	Tokens       int `json:"tokens"`
	// Shadowed counts people whose email or full-name key was already taken.
	Shadowed int `json:"shadowed"`
}

// NewPersonIndex indexes people in registry order. For the email, full-name
// and stripped-name lookups the first person wins; every person still lands
// in the token index.
func NewPersonIndex(people []models.Person, h Honorifics) *PersonIndex {
	idx := &PersonIndex{
		honorifics: h,
		byEmail:    make(map[string]*models.Person, len(people)),
		byFullName: make(map[string]*models.Person, len(people)),
		byStripped: make(map[string]*models.Person),
		byToken:    make(map[string]*roaring.Bitmap),
		people:     make([]*models.Person, len(people)),
	}

	for i := range people {
		p := &people[i]
		idx.people[i] = p
		shadowed := false

		if email := NormalizeEmail(p.Email); email != "" {
			if _, exists := idx.byEmail[email]; exists {
				shadowed = true
			} else {
				idx.byEmail[email] = p
			}
		}

		full := NormalizeFullName(p.Name)
		if full != "" {
			if _, exists := idx.byFullName[full]; exists {
				shadowed = true
			} else {
				idx.byFullName[full] = p
			}
		}

		if stripped := NormalizeFullName(h.Strip(p.Name)); stripped != "" && stripped != full {
			if _, exists := idx.byStripped[stripped]; !exists {
				idx.byStripped[stripped] = p
			}
		}

		for _, tok := range uniqueTokens(h, p.Name, p.Username) {
			bm, ok := idx.byToken[tok]
			if !ok {
				bm = roaring.New()
				idx.byToken[tok] = bm
			}
			bm.Add(uint32(i))
		}

		if shadowed {
			idx.Stats.Shadowed++
		}
	}

	idx.Stats.People = len(people)
	idx.Stats.Emails = len(idx.byEmail)
	idx.Stats.FullNames = len(idx.byFullName)
	idx.Stats.StrippedKeys = len(idx.byStripped)
	idx.Stats.Tokens = len(idx.byToken)
	return idx
}

func (idx *PersonIndex) Honorifics() Honorifics {
	return idx.honorifics
}

func (idx *PersonIndex) ByEmail(email string) (*models.Person, bool) {
	key := NormalizeEmail(email)
	if key == "" {
		return nil, false
	}
	p, ok := idx.byEmail[key]
	return p, ok
}

func (idx *PersonIndex) ByFullName(key string) (*models.Person, bool) {
	if key == "" {
		return nil, false
	}
	p, ok := idx.byFullName[key]
	return p, ok
}

// ByStrippedName looks key up among registry names that carried an honorific.
func (idx *PersonIndex) ByStrippedName(key string) (*models.Person, bool) {
	if key == "" {
		return nil, false
	}
	p, ok := idx.byStripped[key]
	return p, ok
}

// ByToken returns the people carrying token in registry order.
func (idx *PersonIndex) ByToken(token string) []*models.Person {
	bm, ok := idx.byToken[token]
	if !ok {
		return nil
	}
	out := make([]*models.Person, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, idx.people[it.Next()])
	}
	return out
}

func (idx *PersonIndex) postings(token string) *roaring.Bitmap {
	return idx.byToken[token]
}

func (idx *PersonIndex) person(ordinal uint32) *models.Person {
	return idx.people[ordinal]
}

func uniqueTokens(h Honorifics, sources ...string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, s := range sources {
		for _, t := range h.Tokens(s) {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
