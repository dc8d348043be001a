package domain

// Member pairs a Person with the SalaryProfile that drives their
// contributions, letting an arbitrary-size household be simulated
// together for joint/spousal comparison within a single jurisdiction.
type Member struct {
	Name   string        `yaml:"name" json:"name"`
	Person Person        `yaml:"person" json:"person"`
	Salary SalaryProfile `yaml:"salary" json:"salary"`
}

// Household is a named collection of members simulated together. A
// single-person simulation is a Household with one Member.
type Household struct {
	Members []Member `yaml:"members" json:"members"`
}

// Validate checks every member's Person and SalaryProfile invariants.
func (h Household) Validate() error {
	if len(h.Members) == 0 {
		return ErrInvalidProfile
	}
	for _, m := range h.Members {
		if err := m.Person.Validate(); err != nil {
			return err
		}
		if err := m.Salary.Validate(); err != nil {
			return err
		}
	}
	return nil
}
