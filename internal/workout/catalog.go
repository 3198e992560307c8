package workout

// BaselineExercises is the fixed exercise catalog offered to every user,
// in the order it is rendered on the keyboard.
var BaselineExercises = []string{
	"Присідання",
	"Віджимання",
	"Підтягування",
	"Планка",
	"Берпі",
	"Скручування",
	"Випади",
	"Жим штанги лежачи",
	"Станова тяга",
}

// Catalog lists exercises available to a user: the baseline set first,
// then the user's custom exercises from the current session that are not
// already in the baseline, in first-added order.
type Catalog struct {
	sessions *Sessions
}

// NewCatalog builds a catalog backed by the given session store.
func NewCatalog(sessions *Sessions) *Catalog {
	return &Catalog{sessions: sessions}
}

// ListFor returns the merged, deduplicated exercise list for a user.
func (c *Catalog) ListFor(user int64) []string {
	out := make([]string, 0, len(BaselineExercises))
	seen := make(map[string]struct{}, len(BaselineExercises))
	for _, name := range BaselineExercises {
		out = append(out, name)
		seen[name] = struct{}{}
	}
	if c.sessions == nil {
		return out
	}
	for _, name := range c.sessions.ExerciseNames(user) {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
