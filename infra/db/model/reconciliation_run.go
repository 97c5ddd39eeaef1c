package model

type ReconciliationRun struct {
	ID                 int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	RunUUID            string `gorm:"size:36;not null;index" json:"run_uuid"`
	ReconciliationType int64  `gorm:"not null" json:"reconciliation_type"`
	TotalExternalRows  int64  `gorm:"not null" json:"total_external_rows"`
	MatchedRows        int64  `gorm:"not null" json:"matched_rows"`
	Status             int    `gorm:"not null" json:"status"`
	ProcessInfo        string `gorm:"type:text;not null" json:"process_info"`
	Result             string `gorm:"type:text;not null" json:"result"`
	ErrorMessage       string `gorm:"type:text" json:"error_message,omitempty"`
	CreateTime         int64  `gorm:"not null" json:"create_time"`
	CreateBy           string `gorm:"size:100;not null" json:"create_by"`
	UpdateTime         int64  `gorm:"not null" json:"update_time"`
	UpdateBy           string `gorm:"size:100;not null" json:"update_by"`
}
