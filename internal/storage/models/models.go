// Package models holds the rows stored by the repository package.
package models

import "time"

// Battle is one stored battle. Payload holds the record in the battle file
// format so rows round-trip through the same decoder as files.
type Battle struct {
	ID         string    `json:"id" db:"id"`
	SourceID   string    `json:"sourceId" db:"source_id"`
	RecordedAt time.Time `json:"recordedAt" db:"recorded_at"`
	Winner     string    `json:"winner" db:"winner"`
	Payload    string    `json:"payload" db:"payload"`
	ImportedAt time.Time `json:"importedAt" db:"imported_at"`
}

// EvaluationRun is the stored summary of one evaluation sweep.
// Results holds every grid cell as JSON.
type EvaluationRun struct {
	ID                string    `json:"id" db:"id"`
	StartedAt         time.Time `json:"startedAt" db:"started_at"`
	DurationMS        int64     `json:"durationMs" db:"duration_ms"`
	TrainBattles      int       `json:"trainBattles" db:"train_battles"`
	ValidationBattles int       `json:"validationBattles" db:"validation_battles"`
	HeroesEvaluated   int       `json:"heroesEvaluated" db:"heroes_evaluated"`
	SkillsEvaluated   int       `json:"skillsEvaluated" db:"skills_evaluated"`
	BestMinGames      int       `json:"bestMinGames" db:"best_min_games"`
	BestTopK          int       `json:"bestTopK" db:"best_top_k"`
	BestMinWilson     float64   `json:"bestMinWilson" db:"best_min_wilson"`
	HeroNDCG          float64   `json:"heroNdcg" db:"hero_ndcg"`
	HeroCoverage      float64   `json:"heroCoverage" db:"hero_coverage"`
	SkillNDCG         float64   `json:"skillNdcg" db:"skill_ndcg"`
	SkillCoverage     float64   `json:"skillCoverage" db:"skill_coverage"`
	Results           string    `json:"results" db:"results"`
}
