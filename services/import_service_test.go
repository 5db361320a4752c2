package services

import (
	"context"
	"testing"

	"munaybol/models"
)

func TestImportDatasetIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedHotel(t, db, "Hotel Illimani", "La Paz")

	res, err := ImportDataset(ctx, db, chatDataset())
	if err != nil {
		t.Fatalf("ImportDataset: %v", err)
	}
	if res.Hotels != 1 || res.Places != 1 {
		t.Fatalf("first import = %+v, want 1 hotel and 1 place", res)
	}

	res, err = ImportDataset(ctx, db, chatDataset())
	if err != nil {
		t.Fatalf("ImportDataset again: %v", err)
	}
	if res.Hotels != 0 || res.Places != 0 {
		t.Fatalf("second import = %+v, want nothing new", res)
	}

	var hotels int64
	db.Model(&models.Hotel{}).Count(&hotels)
	if hotels != 2 {
		t.Fatalf("hotels = %d, want 2", hotels)
	}
}
