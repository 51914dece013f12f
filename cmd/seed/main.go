package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/musehabit/muse/persistent"
	"github.com/musehabit/muse/pgdb"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	_ "github.com/uptrace/bun/driver/pgdriver"
	"golang.org/x/crypto/bcrypt"
)

// Development seed. Creates the schema if missing and fills it with a
// handful of users, interests, exercises, posts and library items.
func main() {
	flag.Parse()

	pgDsn := os.Getenv("POSTGRES_DSN")
	if pgDsn == "" {
		logrus.Fatalln("Environment variable POSTGRES_DSN is not set!")
	}

	ctx := context.Background()
	db := pgdb.Open(ctx, pgDsn)
	defer db.Close()

	createSchema(ctx, db)
	seed(ctx, db)
	logrus.Infoln("Seed done.")
}

func createSchema(ctx context.Context, db *bun.DB) {
	models := []interface{}{
		(*persistent.User)(nil),
		(*persistent.Interest)(nil),
		(*persistent.UserInterest)(nil),
		(*persistent.Exercise)(nil),
		(*persistent.UserExercise)(nil),
		(*persistent.Post)(nil),
		(*persistent.Library)(nil),
		(*persistent.Comment)(nil),
		(*persistent.SavedPost)(nil),
		(*persistent.SavedLibrary)(nil),
	}
	for _, model := range models {
		_, err := db.NewCreateTable().IfNotExists().Model(model).Exec(ctx)
		if err != nil {
			logrus.WithError(err).Fatalln("Could not create table.")
		}
	}
}

func daysAgo(days int) time.Time {
	return time.Now().AddDate(0, 0, -days)
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not hash password.")
	}
	return string(hash)
}

func seed(ctx context.Context, db *bun.DB) {
	insert := func(model interface{}) {
		_, err := db.NewInsert().Model(model).Exec(ctx)
		if err != nil {
			logrus.WithError(err).Fatalln("Could not insert seed data.")
		}
	}

	users := []persistent.User{
		{
			Id: uuid.NewString(), Name: "Lucas Ribeiro", Email: "lucas@example.com",
			PasswordHash: mustHash("lucas123"), Description: "Ages II.",
			ProfilePicturePath: "profile2.jpg", Streak: 2,
		},
		{
			Id: uuid.NewString(), Name: "Leonardo Fagundes", Email: "leonardo@example.com",
			PasswordHash: mustHash("leonardo123"), Description: "Ages I",
			ProfilePicturePath: "profile1.jpg", Streak: 5,
		},
		{
			Id: uuid.NewString(), Name: "Eduardo Riboli", Email: "eduardo@example.com",
			PasswordHash: mustHash("eduardo123"), Description: "Ages III",
			ProfilePicturePath: "profile2.jpg", Streak: 4,
			CreatedAt: daysAgo(4), UpdatedAt: daysAgo(1),
		},
		{
			Id: uuid.NewString(), Name: "Thiago Defini", Email: "thiago@example.com",
			PasswordHash: mustHash("thiago123"), Description: "Ages II",
			ProfilePicturePath: "profile3.jpg", Streak: 10,
		},
		{
			Id: uuid.NewString(), Name: "Flavia Tavaniello", Email: "flavia@example.com",
			PasswordHash: mustHash("flavia123"), Description: "Ages I",
			ProfilePicturePath: "profile4.jpg", Streak: 7,
			CreatedAt: daysAgo(2),
		},
	}
	insert(&users)
	lucas, leonardo, eduardo, thiago, flavia := users[0], users[1], users[2], users[3], users[4]

	interestTitles := map[string]string{
		"writing":      "Writing",
		"design":       "Design",
		"music":        "Music",
		"literature":   "Literature",
		"photography":  "Photography",
		"games":        "Games",
		"fashion":      "Fashion",
		"crafts":       "Crafts",
		"marketing":    "Marketing",
		"sculpture":    "Sculpture",
		"theatre":      "Theatre",
		"illustration": "Illustration",
		"art":          "Art",
	}
	interests := make([]persistent.Interest, 0, len(interestTitles))
	for id, title := range interestTitles {
		interests = append(interests, persistent.Interest{Id: id, Title: title})
	}
	insert(&interests)

	designSeries := make([]persistent.Exercise, 5)
	for i, title := range []string{
		"Draw your ideal world",
		"Draw with a single color!",
		"How about flipping things around?",
		"Draw your biggest dream",
		"Shall we make a logo?",
	} {
		designSeries[i] = persistent.Exercise{
			Id: uuid.NewString(), InterestId: "design", Type: "Inversion",
			Title:       title,
			Description: "Invert everything you know about branding. Draw your version of the logo below in the worst way you can.",
			CreatedAt:   daysAgo(i),
		}
	}
	gratitude := persistent.Exercise{
		Id: uuid.NewString(), InterestId: "writing", Type: "Limited narrative",
		Title:       "Gratitude journey",
		Description: "See how much you can create with very little. Write an eight word story about an unrequited romance.",
	}
	natureMelody := persistent.Exercise{
		Id: uuid.NewString(), InterestId: "music", Type: "Limited narrative",
		Title:       "Melody of nature",
		Description: "Compose a short melody inspired by the sounds of nature, using only three instruments.",
	}
	cityColors := persistent.Exercise{
		Id: uuid.NewString(), InterestId: "photography", Type: "Inversion",
		Title:       "The city and its colors",
		Description: "Capture five photos showing the vibrant or monochrome colors of the city around you.",
	}
	unlikelyHero := persistent.Exercise{
		Id: uuid.NewString(), InterestId: "games", Type: "Limited narrative",
		Title:       "Unlikely hero",
		Description: "Design a video game hero whose powers and weaknesses come from everyday objects.",
	}
	urbanFuturism := persistent.Exercise{
		Id: uuid.NewString(), InterestId: "fashion", Type: "Inversion",
		Title:       "Urban futurism",
		Description: "Sketch a garment inspired by futurist architecture and urban life.",
	}
	exercises := append([]persistent.Exercise{gratitude, natureMelody, cityColors, unlikelyHero, urbanFuturism}, designSeries...)
	insert(&exercises)

	posts := []persistent.Post{
		{
			Id: uuid.NewString(), OwnerId: lucas.Id,
			Title:       "Exploring daily creativity",
			Description: "Sharing my journey through creative exercises!",
			ImagePath:   "post1.jpg",
		},
		{
			Id: uuid.NewString(), OwnerId: leonardo.Id,
			Title:       "Digital sketchbook #1",
			Description: "A few sketches from my new app!",
			ImagePath:   "post2.jpg",
		},
		{
			Id: uuid.NewString(), OwnerId: eduardo.Id,
			Title:       "Reinterpreting Michelangelo's David",
			Description: "My take on the famous David sculpture.",
			ImagePath:   "post3.jpg",
			CreatedAt:   daysAgo(1),
		},
		{
			Id: uuid.NewString(), OwnerId: thiago.Id,
			Title:       "My new illustrations",
			Description: "Loved exploring this digital watercolor technique.",
			ImagePath:   "post4.jpg",
			CreatedAt:   daysAgo(1),
		},
		{
			Id: uuid.NewString(), OwnerId: flavia.Id,
			Title:       "Thoughts on where fashion is heading",
			Description: "An overview of the newest fashion trends.",
			ImagePath:   "post5.jpg",
			CreatedAt:   daysAgo(2),
		},
	}
	insert(&posts)

	libraries := []persistent.Library{
		{
			Id:          uuid.NewString(),
			Description: "E-book: Creativity and neuroscience",
			Link:        "https://example.com/library/ebook-neuro",
			ImagePath:   "library1.jpg",
		},
		{
			Id:          uuid.NewString(),
			Description: "A practical guide to mindfulness",
			Link:        "https://example.com/library/mindfulness-guide",
			ImagePath:   "library2.jpg",
		},
		{
			Id:          uuid.NewString(),
			Description: "Article: The power of habit",
			Link:        "https://example.com/library/power-of-habit",
			ImagePath:   "library3.jpg",
		},
		{
			Id:          uuid.NewString(),
			Description: "Book: The Artist's Way",
			Link:        "https://example.com/library/artist-way",
			ImagePath:   "library4.jpg",
		},
	}
	insert(&libraries)

	completions := []persistent.UserExercise{
		{UserId: lucas.Id, ExerciseId: gratitude.Id},
		{UserId: lucas.Id, ExerciseId: unlikelyHero.Id},
		{UserId: leonardo.Id, ExerciseId: designSeries[0].Id},
		{UserId: leonardo.Id, ExerciseId: urbanFuturism.Id},
		{UserId: eduardo.Id, ExerciseId: designSeries[1].Id, CreatedAt: daysAgo(1)},
		{UserId: eduardo.Id, ExerciseId: designSeries[2].Id, CreatedAt: daysAgo(2)},
		{UserId: eduardo.Id, ExerciseId: designSeries[3].Id, CreatedAt: daysAgo(3)},
		{UserId: eduardo.Id, ExerciseId: designSeries[4].Id, CreatedAt: daysAgo(4)},
		{UserId: thiago.Id, ExerciseId: natureMelody.Id},
		{UserId: flavia.Id, ExerciseId: cityColors.Id},
	}
	insert(&completions)

	savedPosts := []persistent.SavedPost{
		{UserId: leonardo.Id, PostId: posts[0].Id},
		{UserId: lucas.Id, PostId: posts[1].Id},
		{UserId: eduardo.Id, PostId: posts[2].Id},
		{UserId: thiago.Id, PostId: posts[3].Id},
		{UserId: flavia.Id, PostId: posts[4].Id},
	}
	insert(&savedPosts)

	savedLibraries := []persistent.SavedLibrary{
		{UserId: leonardo.Id, LibraryId: libraries[0].Id},
		{UserId: lucas.Id, LibraryId: libraries[1].Id},
		{UserId: eduardo.Id, LibraryId: libraries[2].Id},
		{UserId: thiago.Id, LibraryId: libraries[3].Id},
	}
	insert(&savedLibraries)

	userInterests := []persistent.UserInterest{
		{UserId: lucas.Id, InterestId: "design"},
		{UserId: lucas.Id, InterestId: "writing"},
		{UserId: lucas.Id, InterestId: "games"},
		{UserId: leonardo.Id, InterestId: "writing"},
		{UserId: leonardo.Id, InterestId: "design"},
		{UserId: leonardo.Id, InterestId: "fashion"},
		{UserId: eduardo.Id, InterestId: "writing"},
		{UserId: eduardo.Id, InterestId: "design"},
		{UserId: eduardo.Id, InterestId: "music"},
		{UserId: thiago.Id, InterestId: "photography"},
		{UserId: thiago.Id, InterestId: "music"},
		{UserId: thiago.Id, InterestId: "illustration"},
		{UserId: flavia.Id, InterestId: "games"},
		{UserId: flavia.Id, InterestId: "fashion"},
		{UserId: flavia.Id, InterestId: "photography"},
	}
	insert(&userInterests)
}
