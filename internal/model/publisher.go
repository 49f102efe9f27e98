package model

// Publisher privileges.
const (
	PrivilegePublisher          = "publisher"
	PrivilegeMinisterialServant = "ministerial_servant"
	PrivilegeElder              = "elder"
)

// Pioneer types.
const (
	PioneerNone      = "none"
	PioneerAuxiliary = "auxiliary"
	PioneerRegular   = "regular"
	PioneerSpecial   = "special"
)

var (
	Genders      = []string{"male", "female"}
	Privileges   = []string{PrivilegePublisher, PrivilegeMinisterialServant, PrivilegeElder}
	PioneerTypes = []string{PioneerNone, PioneerAuxiliary, PioneerRegular, PioneerSpecial}
)

// Publisher is reference data used to populate territory and schedule forms.
type Publisher struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Gender      string `json:"gender,omitempty"`
	Privilege   string `json:"privilege,omitempty"`
	PioneerType string `json:"pioneerType,omitempty"`
	IsCaptain   bool   `json:"isCaptain"`
	IsCart      bool   `json:"isCart"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
}

// CleaningGroup is one rotation slot for hall cleaning.
type CleaningGroup struct {
	ID          string   `json:"id"`
	GroupNumber string   `json:"groupNumber"`
	Date        string   `json:"date"`
	Leader      string   `json:"leader,omitempty"`
	Members     []string `json:"members"`
}
