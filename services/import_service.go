package services

import (
	"context"

	"munaybol/errors"
	"munaybol/models"
	"munaybol/services/chat"

	"gorm.io/gorm"
)

// ImportResult counts rows created by ImportDataset
type ImportResult struct {
	Hotels int `json:"hoteles"`
	Places int `json:"lugares"`
}

// ImportDataset copies the dataset hotels and places into the catalog tables.
// Rows already present with the same nombre and departamento are skipped, so
// running it twice is harmless.
func ImportDataset(ctx context.Context, db *gorm.DB, ds *chat.Dataset) (ImportResult, error) {
	var res ImportResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, h := range ds.Hotels() {
			created, err := createIfMissing(tx, &models.Hotel{}, h.Nombre, h.Departamento, &models.Hotel{
				Nombre:       h.Nombre,
				Ubicacion:    h.Ubicacion,
				Departamento: h.Departamento,
				Calificacion: h.Calificacion,
				Estado:       models.Active,
			})
			if err != nil {
				return err
			}
			if created {
				res.Hotels++
			}
		}
		for _, p := range ds.Places() {
			created, err := createIfMissing(tx, &models.Place{}, p.Nombre, p.Departamento, &models.Place{
				Nombre:       p.Nombre,
				Ubicacion:    p.Ubicacion,
				Departamento: p.Departamento,
				Tipo:         p.Tipo,
				Horario:      p.Horario,
				Descripcion:  p.Descripcion,
				Estado:       models.Active,
			})
			if err != nil {
				return err
			}
			if created {
				res.Places++
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, errors.DB(err)
	}
	return res, nil
}

func createIfMissing(tx *gorm.DB, model interface{}, nombre, departamento string, row interface{}) (bool, error) {
	var n int64
	if err := tx.Model(model).Where("nombre = ? AND departamento = ?", nombre, departamento).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	return true, tx.Create(row).Error
}
