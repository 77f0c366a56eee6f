package entities

// JobBundle is everything written for a single newly seen job.
// A nil child slice means the source had no such collection and existing rows are left alone.
type JobBundle struct {
	JobID string
	// Job holds column -> value pairs; absent values are not present as keys.
	Job       map[string]any
	Recruiter *Recruiter
	Company   *Company
	Link      JobCompanyRecruiter

	Labels          []JobLabel
	Skills          []JobSkill
	IconFlags       []JobIconFlag
	Welfare         []CompanyWelfare
	BeforeNameIcons []NameIcon
	AfterNameIcons  []NameIcon
}

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{
		&Job{},
		&JobLabel{},
		&JobSkill{},
		&JobIconFlag{},
		&Company{},
		&CompanyWelfare{},
		&Recruiter{},
		&JobCompanyRecruiter{},
		&RequestLog{},
		&NameIcon{},
	}
}
