package domain

import "testing"

func TestCategory_Valid(t *testing.T) {
	valid := []Category{CategorySports, CategoryBusiness, CategoryEntertainment, CategoryTechnology, CategoryPolitics, CategoryHealth}
	for _, c := range valid {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
	if Category("weather").Valid() {
		t.Error("expected weather to be invalid")
	}
}

func TestArticlePatch_Empty(t *testing.T) {
	if !(ArticlePatch{}).Empty() {
		t.Fatal("zero patch must be empty")
	}
	published := false
	if (ArticlePatch{IsPublished: &published}).Empty() {
		t.Fatal("patch with isPublished must not be empty")
	}
}
