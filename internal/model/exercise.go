package model

// DifficultyLevel 题目难度
type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"     // 初级
	DifficultyIntermediate DifficultyLevel = "intermediate" // 中级
	DifficultyAdvanced     DifficultyLevel = "advanced"     // 高级
	DifficultyHard         DifficultyLevel = "hard"         // 困难
	DifficultyHell         DifficultyLevel = "hell"         // 地狱
)

// ExerciseStatus 题目状态
type ExerciseStatus string

const (
	ExerciseDraft     ExerciseStatus = "draft"
	ExercisePublished ExerciseStatus = "published"
	ExerciseArchived  ExerciseStatus = "archived"
)

// Exercise 爬虫练习题目
// swagger:model Exercise
type Exercise struct {
	BaseModel
	Title           string          `gorm:"size:200;not null" json:"title"`
	Description     string          `gorm:"type:text;not null" json:"description"`
	TargetURL       string          `gorm:"size:500" json:"target_url"`
	Difficulty      DifficultyLevel `gorm:"type:enum('beginner','intermediate','advanced','hard','hell');default:'beginner'" json:"difficulty"`
	Status          ExerciseStatus  `gorm:"type:enum('draft','published','archived');default:'draft'" json:"status"`
	ChallengePoints string          `gorm:"size:500" json:"challenge_points"` // 考察点描述
	Tags            string          `gorm:"type:json" json:"tags"`
	Points          int             `gorm:"default:10" json:"points"`
	TimeLimit       int             `gorm:"default:300" json:"time_limit"` // 秒
	Hints           string          `gorm:"type:text" json:"hints,omitempty"`
	Solution        string          `gorm:"type:text" json:"-"`
	SortOrder       int             `gorm:"default:0;index" json:"sort_order"`
	CreatedBy       uint            `json:"created_by"`
}

func (Exercise) TableName() string {
	return "exercises"
}
