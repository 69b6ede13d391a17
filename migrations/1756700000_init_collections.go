package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		tripsCol := core.NewBaseCollection("trips")
		tripsCol.Fields.Add(
			&core.TextField{Name: "destination", Required: true},
			// Dates are stored as plain YYYY-MM-DD text on purpose; a date
			// field would reintroduce the timezone rollover the normalizer
			// exists to avoid.
			&core.TextField{Name: "startDate"},
			&core.TextField{Name: "endDate"},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)
		if err := app.Save(tripsCol); err != nil {
			return err
		}

		daysCol := core.NewBaseCollection("trip_days")
		daysCol.Fields.Add(
			&core.RelationField{
				Name:          "trip",
				CollectionId:  tripsCol.Id,
				Required:      true,
				MaxSelect:     1,
				CascadeDelete: true,
			},
			&core.NumberField{Name: "position"},
			&core.TextField{Name: "date", Required: true},
			&core.SelectField{
				Name:      "type",
				Values:    []string{"flight", "hotel", "activity", "logistics"},
				MaxSelect: 1,
			},
			&core.TextField{Name: "title"},
			&core.TextField{Name: "time"},
			&core.TextField{Name: "location"},
			&core.TextField{Name: "notes"},
			&core.JSONField{Name: "details"},
			&core.JSONField{Name: "activities"},
			&core.JSONField{Name: "checklistItems"},
			&core.JSONField{Name: "attachments"},
		)
		return app.Save(daysCol)
	}, func(app core.App) error {
		for _, name := range []string{"trip_days", "trips"} {
			col, err := app.FindCollectionByNameOrId(name)
			if err != nil {
				continue
			}
			if err := app.Delete(col); err != nil {
				return err
			}
		}
		return nil
	})
}
