package repository

import (
	"testing"

	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/models"
)

func TestLikeConditionByDialect(t *testing.T) {
	condition, count := likeCondition("sqlite", []string{"email", " ", "first_name"})
	if count != 2 {
		t.Fatalf("arg count want 2 got %d", count)
	}
	if condition != `email LIKE ? ESCAPE '\' OR first_name LIKE ? ESCAPE '\'` {
		t.Fatalf("unexpected condition: %s", condition)
	}
	condition, _ = likeCondition("postgres", []string{"email"})
	if condition != `email ILIKE ? ESCAPE '\'` {
		t.Fatalf("postgres should use ILIKE, got %s", condition)
	}
}

func TestSearchColumnsEscapesWildcards(t *testing.T) {
	db := openRepositoryTestDB(t)
	for _, title := range []string{"Скидка 100%", "Скидка 1000", "Лендинг"} {
		svc := models.Service{Title: title, Slug: title, PriceType: constants.PriceTypeNegotiable}
		if err := db.Create(&svc).Error; err != nil {
			t.Fatalf("create service failed: %v", err)
		}
	}

	var found []models.Service
	if err := searchColumns(db.Model(&models.Service{}), "100%", "title").Find(&found).Error; err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(found) != 1 || found[0].Title != "Скидка 100%" {
		t.Fatalf("percent must match literally, got %+v", found)
	}

	found = nil
	if err := searchColumns(db.Model(&models.Service{}), "  ", "title").Find(&found).Error; err != nil {
		t.Fatalf("blank search failed: %v", err)
	}
	if len(found) != 3 {
		t.Fatalf("blank term must not filter, got %d", len(found))
	}
}

func TestPaginateClampsPage(t *testing.T) {
	db := openRepositoryTestDB(t)
	for i := 0; i < 5; i++ {
		svc := models.Service{Title: "svc", Slug: string(rune('a' + i)), PriceType: constants.PriceTypeNegotiable}
		if err := db.Create(&svc).Error; err != nil {
			t.Fatalf("create service failed: %v", err)
		}
	}
	var page []models.Service
	if err := paginate(db.Model(&models.Service{}), 0, 2).Order("id asc").Find(&page).Error; err != nil {
		t.Fatalf("paginate failed: %v", err)
	}
	if len(page) != 2 || page[0].Slug != "a" {
		t.Fatalf("page 0 should behave as page 1, got %+v", page)
	}
	page = nil
	if err := paginate(db.Model(&models.Service{}), 3, 0).Find(&page).Error; err != nil {
		t.Fatalf("unpaged query failed: %v", err)
	}
	if len(page) != 5 {
		t.Fatalf("pageSize 0 must return all rows, got %d", len(page))
	}
}
