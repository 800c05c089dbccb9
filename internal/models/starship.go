package models

// Manufacturer is a canonical producer name shared by many starships.
type Manufacturer struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:256;uniqueIndex;not null"`
}

// TableName specifies the table name for Manufacturer Model
func (Manufacturer) TableName() string {
	return "manufacturers"
}

// Starship mirrors one upstream starship record.
// Descriptive fields stay strings: upstream mixes numbers, commas and "unknown".
type Starship struct {
	ID                   uint   `json:"id" gorm:"primaryKey"`
	UID                  string `json:"uid" gorm:"column:uid;size:20;uniqueIndex;not null"`
	Name                 string `json:"name" gorm:"size:256;not null;index"`
	Model                string `json:"model" gorm:"size:256"`
	CostInCredits        string `json:"cost_in_credits" gorm:"size:50"`
	Length               string `json:"length" gorm:"size:50"`
	MaxAtmospheringSpeed string `json:"max_atmosphering_speed" gorm:"size:50"`
	Crew                 string `json:"crew" gorm:"size:50"`
	Passengers           string `json:"passengers" gorm:"size:50"`
	CargoCapacity        string `json:"cargo_capacity" gorm:"size:50"`
	Consumables          string `json:"consumables" gorm:"size:100"`
	HyperdriveRating     string `json:"hyperdrive_rating" gorm:"size:20"`
	MGLT                 string `json:"mglt" gorm:"column:mglt;size:20"`
	StarshipClass        string `json:"starship_class" gorm:"size:256"`
	URL                  string `json:"url" gorm:"size:256"`

	Manufacturers []Manufacturer `json:"manufacturers,omitempty" gorm:"many2many:starship_manufacturers"`
}

// TableName specifies the table name for Starship Model
func (Starship) TableName() string {
	return "starships"
}

// StarshipManufacturer is the join row. The composite primary key forbids duplicate pairs.
type StarshipManufacturer struct {
	StarshipID     uint `gorm:"primaryKey;autoIncrement:false"`
	ManufacturerID uint `gorm:"primaryKey;autoIncrement:false"`
}

// TableName specifies the table name for the join Model
func (StarshipManufacturer) TableName() string {
	return "starship_manufacturers"
}

// ManufacturerNames lists the names of the loaded manufacturers.
func (s Starship) ManufacturerNames() []string {
	names := make([]string, 0, len(s.Manufacturers))
	for _, m := range s.Manufacturers {
		names = append(names, m.Name)
	}
	return names
}
