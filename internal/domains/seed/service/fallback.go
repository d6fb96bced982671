package service

import (
	"fmt"
	catalogModel "salon/internal/domains/catalog/model"
	staffModel "salon/internal/domains/staff/model"
	"salon/shared/constant"
	gModel "salon/shared/model"
	"time"
)

const (
	seedUser      = "seed"
	imageURLShape = "https://picsum.photos/seed/%s/600/400"
)

type fallbackReview struct {
	id       string
	userName string
	rating   int
	comment  string
	daysAgo  int
}

// FallbackServices is the catalog a fresh installation starts with.
func FallbackServices(now time.Time) []catalogModel.Service {
	services := []catalogModel.Service{
		{
			ID:          "ser-1",
			Name:        "Precision Haircut",
			Description: "A tailored cut to suit your style and face shape, including a wash and blow-dry.",
			Price:       65,
			Duration:    60,
		},
		{
			ID:          "ser-2",
			Name:        "Full Color & Style",
			Description: "Transform your look with a vibrant, all-over color, finished with a professional styling session.",
			Price:       150,
			Duration:    120,
		},
		{
			ID:          "ser-3",
			Name:        "Balayage & Highlights",
			Description: "Achieve a natural, sun-kissed look with beautifully blended, hand-painted highlights.",
			Price:       220,
			Duration:    180,
		},
		{
			ID:          "ser-4",
			Name:        "Luxury Blowout",
			Description: "A voluminous and sleek blowout for a special occasion or just to feel fabulous.",
			Price:       50,
			Duration:    45,
		},
		{
			ID:          "ser-5",
			Name:        "Deep Conditioning Treatment",
			Description: "Revitalize and nourish your hair with an intensive mask treatment.",
			Price:       40,
			Duration:    30,
		},
		{
			ID:          "ser-6",
			Name:        "Men's Grooming Cut",
			Description: "A sharp, modern cut designed for men, including a precision trim and style.",
			Price:       45,
			Duration:    45,
		},
	}

	for i := range services {
		services[i].ImageURL = fmt.Sprintf(imageURLShape, services[i].ID)
		services[i].Metadata = seedMetadata(now, i)
	}

	return services
}

// FallbackStaff is the stylist roster a fresh installation starts with. The
// derived rating and review count are computed from the seeded reviews.
func FallbackStaff(now time.Time) []staffModel.Staff {
	roster := []struct {
		staff   staffModel.Staff
		reviews []fallbackReview
	}{
		{
			staff: staffModel.Staff{ID: "staff-1", Name: "Olivia Chen", Specialization: "Color Specialist", Experience: "10 years"},
			reviews: []fallbackReview{
				{id: "rev-2", userName: "Jessica P.", rating: 5, comment: "So knowledgeable and friendly. Highly recommend!", daysAgo: 30},
				{id: "rev-1", userName: "Emily R.", rating: 5, comment: "Olivia is a miracle worker! My color has never looked better.", daysAgo: 14},
			},
		},
		{
			staff: staffModel.Staff{ID: "staff-2", Name: "Benjamin Carter", Specialization: "Master Stylist & Cuts", Experience: "12 years"},
			reviews: []fallbackReview{
				{id: "rev-3", userName: "Michael B.", rating: 5, comment: "Ben always gives the perfect cut. True professional.", daysAgo: 21},
			},
		},
		{
			staff: staffModel.Staff{ID: "staff-3", Name: "Sophia Rodriguez", Specialization: "Balayage & Styling", Experience: "8 years"},
			reviews: []fallbackReview{
				{id: "rev-5", userName: "Ava G.", rating: 5, comment: "I loved my wedding hairstyle, it was perfect!", daysAgo: 60},
				{id: "rev-4", userName: "Chloe T.", rating: 5, comment: "My balayage is absolutely stunning. Sophia is an artist!", daysAgo: 5},
			},
		},
		{
			staff: staffModel.Staff{ID: "staff-4", Name: "Liam Goldberg", Specialization: "Men's Grooming", Experience: "7 years"},
			reviews: []fallbackReview{
				{id: "rev-6", userName: "David S.", rating: 5, comment: "Liam is the best for modern men's cuts. Great attention to detail.", daysAgo: 7},
			},
		},
	}

	staff := make([]staffModel.Staff, 0, len(roster))

	for i, entry := range roster {
		member := entry.staff
		member.ImageURL = fmt.Sprintf(imageURLShape, member.ID)
		member.Reviews = make(staffModel.Reviews, 0, len(entry.reviews))
		member.Version = 1
		member.Metadata = seedMetadata(now, i)

		for _, review := range entry.reviews {
			member.Reviews = append(member.Reviews, staffModel.Review{
				ID:        review.id,
				UserName:  review.userName,
				Rating:    review.rating,
				Comment:   review.comment,
				CreatedAt: now.AddDate(0, 0, -review.daysAgo).Format(constant.DisplayDateFormat),
			})
		}

		member.Recompute()
		staff = append(staff, member)
	}

	return staff
}

// seedMetadata staggers creation times by position so that listings ordered
// by created_at keep the fallback order.
func seedMetadata(now time.Time, position int) gModel.Metadata {
	createdAt := now.Add(time.Duration(position) * time.Second)

	return gModel.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: createdAt,
		CreatedBy:  seedUser,
		ModifiedBy: seedUser,
	}
}
