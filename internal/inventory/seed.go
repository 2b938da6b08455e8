package inventory

import (
	"context"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
)

type masterEntry struct {
	name         string
	category     models.MedicineCategory
	dose         string
	duration     int
	instructions string
}

var masterList = []masterEntry{
	{"Sudarshan Ghan Vati", models.CategoryTablet, "2 tablets", 7, "thrice daily"},
	{"Tribhuvan Kirti Rasa", models.CategoryTablet, "125mg", 5, "twice daily"},
	{"Sanjeevani Vati", models.CategoryTablet, "1 tablet", 7, "twice daily"},
	{"Giloy Ghan Vati", models.CategoryTablet, "1 tablet", 15, "twice daily"},
	{"Arogyavardhini Vati", models.CategoryTablet, "2 tablets", 21, "twice daily"},
	{"Chandraprabha Vati", models.CategoryTablet, "2 tablets", 30, "twice daily"},
	{"Kaishore Guggulu", models.CategoryTablet, "2 tablets", 30, "twice daily"},
	{"Yograj Guggulu", models.CategoryTablet, "2 tablets", 30, "twice daily"},
	{"Hingwashtak Vati", models.CategoryTablet, "1 tablet", 15, "after meals"},

	{"Amritarishta", models.CategoryAsava, "20ml", 14, "after meals"},
	{"Dashmoolarishta", models.CategoryAsava, "20ml", 30, "after meals"},
	{"Ashokarishta", models.CategoryAsava, "20ml", 30, "after meals"},
	{"Draksharishta", models.CategoryAsava, "20ml", 30, "after meals"},
	{"Balarishta", models.CategoryAsava, "20ml", 30, "after meals"},
	{"Kutajarishta", models.CategoryAsava, "20ml", 15, "after meals"},
	{"Abhayarishta", models.CategoryAsava, "15-30ml", 30, "after meals"},

	{"Triphala Churna", models.CategoryChurna, "3-5g", 30, "at bedtime with warm water"},
	{"Sitopaladi Churna", models.CategoryChurna, "3g", 14, "twice daily with honey"},
	{"Trikatu Churna", models.CategoryChurna, "1-3g", 14, "twice daily"},
	{"Avipattikar Churna", models.CategoryChurna, "3-5g", 21, "before meals"},
	{"Hingwashtak Churna", models.CategoryChurna, "3-5g", 15, "twice daily"},

	{"Ksheerabala Taila", models.CategoryOil, "--", 30, "external application"},
	{"Mahanarayan Taila", models.CategoryOil, "--", 30, "external application"},
	{"Dhanwantharam Taila", models.CategoryOil, "--", 30, "external application"},
	{"Bala Taila", models.CategoryOil, "--", 30, "external application"},
	{"Sahacharadi Taila", models.CategoryOil, "--", 30, "external application"},

	{"Chyawanprash", models.CategorySyrup, "10g", 30, "twice daily with milk"},
	{"Swasamrutham Syrup", models.CategorySyrup, "10ml", 14, "thrice daily"},
	{"Vasavaleha", models.CategoryOthers, "5-10g", 21, "twice daily"},
	{"Kantakari Avaleha", models.CategoryOthers, "5-10g", 21, "twice daily"},
	{"Brahmi Ghrita", models.CategoryOthers, "5-10g", 30, "with warm milk"},
}

// SeedResult counts what a seeding run did.
type SeedResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// Seed inserts every master-list medicine not already present (names compared
// without case) with a random opening stock between 10 and 100.
func Seed(ctx context.Context, store Store, rng *rand.Rand, log zerolog.Logger) (SeedResult, error) {
	var res SeedResult

	names, err := store.Names(ctx)
	if err != nil {
		return res, err
	}
	existing := make(map[string]bool, len(names))
	for _, n := range names {
		existing[strings.ToLower(strings.TrimSpace(n))] = true
	}

	for _, e := range masterList {
		key := strings.ToLower(e.name)
		if existing[key] {
			res.Skipped++
			continue
		}

		m := &models.Medicine{
			Name:                e.name,
			Category:            e.category,
			Quantity:            10 + rng.Intn(91),
			AlertLevel:          5,
			MinStockThreshold:   5,
			DefaultDosage:       e.dose,
			DefaultDuration:     e.duration,
			DefaultInstructions: e.instructions,
			IsActive:            true,
			Source:              models.SourceSystemSeeded,
		}
		if err := store.Create(ctx, m); err != nil {
			return res, err
		}
		existing[key] = true
		res.Inserted++
		log.Debug().Str("name", m.Name).Int("quantity", m.Quantity).Msg("seeded medicine")
	}

	log.Info().Int("inserted", res.Inserted).Int("skipped", res.Skipped).Msg("medicine seeding finished")
	return res, nil
}
