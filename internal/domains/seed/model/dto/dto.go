package dto

type SeedResponse struct {
	ServicesInserted int64 `json:"services_inserted"`
	StaffInserted    int64 `json:"staff_inserted"`
}

func (r SeedResponse) Changed() bool {
	return r.ServicesInserted > 0 || r.StaffInserted > 0
}
