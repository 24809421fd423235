package entity

// Project represents a roofing job
type Project struct {
	Id        string `json:"id" gorm:"column:id;primaryKey"`
	Name      string `json:"name" gorm:"column:name"`
	Address   string `json:"address" gorm:"column:address"`
	City      string `json:"city" gorm:"column:city"`
	Status    string `json:"status" gorm:"column:status"`
	Thumbnail string `json:"thumbnail" gorm:"column:thumbnail"`
	CreatedAt int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Project
func (Project) TableName() string {
	return "projects"
}

// Project status values
const (
	ProjectStatusLead       = "lead"
	ProjectStatusScheduled  = "scheduled"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusComplete   = "complete"
)

// ProjectPhoto represents job-site documentation media
type ProjectPhoto struct {
	Id         string `json:"id" gorm:"column:id;primaryKey"`
	ProjectId  string `json:"project_id" gorm:"column:project_id;index"`
	URL        string `json:"url" gorm:"column:url"`
	Caption    string `json:"caption" gorm:"column:caption"`
	MediaType  string `json:"media_type" gorm:"column:media_type"` // photo / video
	UploadedBy string `json:"uploaded_by" gorm:"column:uploaded_by"`
	CreatedAt  int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
}

// TableName returns the table name for ProjectPhoto
func (ProjectPhoto) TableName() string {
	return "project_photos"
}
