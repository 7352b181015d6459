package model

// Secuencia is a named counter incremented under a row lock.
type Secuencia struct {
	Nombre string `gorm:"primaryKey;type:varchar(50)"`
	Valor  int64  `gorm:"not null"`
}

func (Secuencia) TableName() string { return "secuencias" }
