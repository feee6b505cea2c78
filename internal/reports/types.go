package reports

type Organization struct {
	OrganizationID int    `json:"organizationId"`
	Name           string `json:"name"`
	TypeID         int    `json:"typeId"`
}

type DocumentRecord struct {
	DocumentID int    `json:"documentId"`
	Title      string `json:"title"`
}

// DocumentQuery selects the documents of one organization for one year and
// report slug.
type DocumentQuery struct {
	Year           int
	OrganizationID int
	OrgTypeID      int
	ReportCategory int
	Slug           string
}

// FilterByType keeps the organizations whose type matches exactly, in order.
func FilterByType(orgs []Organization, typeID int) []Organization {
	var out []Organization
	for _, org := range orgs {
		if org.TypeID == typeID {
			out = append(out, org)
		}
	}
	return out
}
