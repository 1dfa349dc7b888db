package store

import (
	"testing"

	"github.com/google/uuid"

	"houstonpro/internal/models"
)

func TestGalleryStoreCreateListDelete(t *testing.T) {
	db := testDB(t)
	s := NewGalleryStore(db)
	c := testContractor(t, db, models.TierFree, "landscaping")
	other := testContractor(t, db, models.TierFree, "landscaping")

	var created []*models.GalleryImage
	for i := 0; i < 3; i++ {
		key := "gallery/" + c.ID.String() + "/" + uuid.NewString() + ".jpg"
		g, err := s.Create(&models.GalleryImage{
			ContractorID: c.ID,
			ImageURL:     "http://localhost:9000/houstonpro/" + key,
			S3Key:        key,
			ContentType:  "image/jpeg",
			SizeBytes:    2048,
		})
		if err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
		if g.DisplayOrder != i {
			t.Errorf("display order: got %d, want %d", g.DisplayOrder, i)
		}
		created = append(created, g)
	}

	list, err := s.ListByContractor(c.ID)
	if err != nil {
		t.Fatalf("ListByContractor: %v", err)
	}
	if len(list) != 3 || list[0].ID != created[0].ID {
		t.Fatalf("list order: got %d items", len(list))
	}

	// Another contractor cannot delete these images.
	g, err := s.Delete(other.ID, created[1].ID)
	if err != nil {
		t.Fatalf("Delete (other): %v", err)
	}
	if g != nil {
		t.Error("cross-contractor delete should match nothing")
	}

	g, err = s.Delete(c.ID, created[1].ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if g == nil || g.S3Key != created[1].S3Key {
		t.Fatalf("Delete should return the removed row, got %+v", g)
	}

	n, err := s.Count(c.ID)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("count after delete: got %d, want 2", n)
	}

	// New uploads still go to the end.
	key := "gallery/" + c.ID.String() + "/" + uuid.NewString() + ".png"
	last, err := s.Create(&models.GalleryImage{
		ContractorID: c.ID, ImageURL: "u", S3Key: key, ContentType: "image/png",
	})
	if err != nil {
		t.Fatalf("Create after delete: %v", err)
	}
	if last.DisplayOrder != 3 {
		t.Errorf("display order after delete: got %d, want 3", last.DisplayOrder)
	}
}
