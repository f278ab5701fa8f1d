package importer

import (
	"strings"

	"checkin-importer/internal/matching"
	"checkin-importer/internal/models"
	"checkin-importer/internal/normalize"
	"checkin-importer/internal/providers"
)

const supportCachePrefix = "support:"

// DefaultGenericSupportKeywords lists phrases that describe a kind of
// contact rather than a person. Labels containing one are never resolved.
func DefaultGenericSupportKeywords() []string {
	return []string{
		"mentor", "counselor", "counsellor", "parent", "mother", "father",
		"myself", "friend", "teacher", "homeroom", "principal", "coach",
		"sibling", "brother", "sister", "family", "nobody", "no one",
		"guru", "wali kelas", "orang tua", "ibu saya", "ayah saya",
		"teman", "sahabat", "diri sendiri", "keluarga", "tidak ada",
	}
}

// DefaultSupportRoles are the roles a resolved support contact may have.
func DefaultSupportRoles() []models.Role {
	return []models.Role{models.RoleTeacher, models.RoleCounselor, models.RoleStaff, models.RoleAdmin}
}

// SupportContact holds at most one of PersonID and Label.
type SupportContact struct {
	PersonID *string
	Label    *string
}

func (c SupportContact) IsZero() bool {
	return c.PersonID == nil && c.Label == nil
}

type SupportResolver struct {
	matcher  *matching.Matcher
	keywords []string
	roles    map[models.Role]struct{}
	cache    providers.CacheProviderInterface
}

func NewSupportResolver(matcher *matching.Matcher, roles []models.Role, keywords []string, cache providers.CacheProviderInterface) *SupportResolver {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	kw := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kw = append(kw, k)
		}
	}
	return &SupportResolver{matcher: matcher, keywords: kw, roles: allowed, cache: cache}
}

func (r *SupportResolver) Resolve(v any) SupportContact {
	label := normalize.Text(v)
	if label == "" {
		return SupportContact{}
	}

	key := supportCachePrefix + strings.ToLower(label)
	if cached, ok := r.cache.Get(key); ok {
		return r.contact(label, string(cached))
	}

	personID := r.resolvePerson(label)
	r.cache.Set(key, []byte(personID))
	return r.contact(label, personID)
}

func (r *SupportResolver) IsGeneric(label string) bool {
	lower := strings.ToLower(label)
	for _, k := range r.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func (r *SupportResolver) resolvePerson(label string) string {
	if r.IsGeneric(label) {
		return ""
	}
	m := r.matcher.ResolveName(label)
	if !m.Found() {
		return ""
	}
	// A match outside the allow-list is discarded, not kept as text of the match.
	if _, ok := r.roles[m.Person.Role]; !ok {
		return ""
	}
	return m.Person.ID
}

func (r *SupportResolver) contact(label, personID string) SupportContact {
	if personID != "" {
		return SupportContact{PersonID: &personID}
	}
	return SupportContact{Label: &label}
}
