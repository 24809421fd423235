package entity

// Lead represents a contact-form submission from the marketing site
type Lead struct {
	Id         string `json:"id" gorm:"column:id;primaryKey"`
	Name       string `json:"name" gorm:"column:name"`
	Email      string `json:"email" gorm:"column:email"`
	Phone      string `json:"phone" gorm:"column:phone"`
	City       string `json:"city" gorm:"column:city"`
	Service    string `json:"service" gorm:"column:service"`
	Message    string `json:"message" gorm:"column:message"`
	SourcePage string `json:"source_page" gorm:"column:source_page"`
	CreatedAt  int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
}

// TableName returns the table name for Lead
func (Lead) TableName() string {
	return "leads"
}
