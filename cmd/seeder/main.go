package main

import (
	"context"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/poiesic/indexit/config"
)

type sampleDocument struct {
	Title   string
	Content string
}

var samples = []sampleDocument{
	{
		Title: "How Canal Locks Work",
		Content: `A canal lock is a chamber with gates at both ends that lifts or lowers
boats between stretches of water at different levels. The boat enters, the gates
close behind it, and sluices let water flow in from the upper pound or out to the
lower one. Nothing pumps; gravity does all the work.

The gates themselves are miter gates, a pair of leaves angled upstream so that
water pressure squeezes them shut. They can only open once the level on both
sides is equal, which is why a lock cannot be rushed. A full cycle on a narrow
canal takes about ten minutes and moves tens of thousands of litres.

Flights of locks climb hills in steps, and a staircase lock shares gates between
chambers to save space. Keepers once worked every flight by hand; today most
remain hand-wound by the boaters themselves, using the same windlass pattern
cut a century ago.`,
	},
	{
		Title: "Sourdough Starter Care",
		Content: `A sourdough starter is a stable culture of wild yeast and lactic acid
bacteria living in a paste of flour and water. Fed on a regular schedule it
doubles within hours, smells faintly of yogurt and beer, and leavens bread with
no commercial yeast at all.

Feeding is a ratio, not a recipe. Keep a small amount of ripe starter, add flour
and water by weight, and discard the rest or bake with it. A starter kept at
room temperature wants feeding daily; one kept in the refrigerator can wait a
week between feedings.

Trouble usually announces itself by smell. A sharp acetone note means the
culture is hungry, a grey liquid on top is harmless hooch, and pink or orange
streaks mean contamination and the batch should be thrown away.`,
	},
	{
		Title: "Keeping Bees Through Winter",
		Content: `Honeybees do not hibernate. The colony contracts into a tight cluster
around the queen and shivers its flight muscles to hold the core near thirty
degrees even in hard frost. The cluster creeps across the comb all winter,
eating its way through the honey stored in autumn.

A hive going into winter needs weight more than warmth. Beekeepers heft the
back of each hive to judge stores, and feed heavy syrup in September if a
colony is light. Insulation above the brood box matters because condensation
dripping on the cluster kills faster than cold air ever does.

The first warm day of late winter brings cleansing flights and the first real
inspection. A colony that flies, carries pollen, and shows a tight brood
pattern has made it through.`,
	},
	{
		Title: "Tidal Power Basics",
		Content: `Tidal generation turns the twice-daily rise and fall of the sea into
electricity. Barrage schemes close off an estuary and run the head difference
through bulb turbines, while tidal stream turbines sit on the seabed like
underwater windmills and harvest fast currents directly.

The appeal is predictability. Unlike wind or sun, tides follow the moon on a
timetable known years in advance, so grid operators can schedule around slack
water to the minute. The cost is geography; only a few dozen sites worldwide
combine a large tidal range with sensible construction conditions.

Modern projects favour stream turbines over barrages because they leave the
shoreline and sediment flows largely untouched, and because a failed unit can
be lifted out for repair without draining anything.`,
	},
	{
		Title: "Reading Alpine Weather",
		Content: `Mountain weather changes faster than any forecast can follow, so
climbers learn to read the sky directly. Lenticular caps over summits mean
strong winds aloft, and a milky halo around the sun is cirrostratus running
ahead of a warm front, often a day before the rain arrives.

Afternoon thunderstorms are the classic alpine trap. Summer sun heats the
valley walls, the warm air rises up the slopes, and by early afternoon the
friendly cumulus of mid-morning has towered into an anvil. The rule of thumb
is to be off the summit by noon.

Wind direction tells the rest of the story. In the Alps a south wind brings
the foehn, dry and violently gusty on the north side, with brilliant
visibility that tempts people high just as conditions turn dangerous.`,
	},
	{
		Title: "Coffee Roast Profiles",
		Content: `Roasting coffee is a controlled browning of a dense seed. The bean
passes through a drying phase, a Maillard phase where sugars and amino acids
build flavour, and finally first crack, the audible pop when steam pressure
splits the bean structure and roasting proper begins.

A roast profile is the curve of bean temperature over time, and small changes
move the cup dramatically. A fast profile finishing just after first crack
keeps origin acidity and floral notes; stretching development toward second
crack trades brightness for body and chocolate.

Light roasts are denser and less soluble, which is why they ask for finer
grinds and hotter water at brew time. Darker roasts give up their solubles
easily and turn bitter if treated the same way.`,
	},
	{
		Title: "Stargazing From the City",
		Content: `City skies drown faint objects, but they do not end astronomy. The
moon, the bright planets, and double stars punch through any skyglow, and an
ordinary pair of binoculars shows the Galilean moons of Jupiter from a
balcony over a supermarket car park.

The working trick is to chase surface brightness rather than magnitude.
Compact open clusters and planetary nebulae survive light pollution far
better than sprawling galaxies, and a simple broadband filter stretches the
list further.

Timing beats equipment. An hour after a cold front passes, the air is dry and
steady and the sky can be a full magnitude darker than on a humid summer
night, which matters more than any upgrade in glass.`,
	},
	{
		Title: "Lighthouse Supply Runs",
		Content: `Remote lighthouses were company towns of three. Keepers worked a
rotation of watches around trimming, winding, and logging, and everything
they ate or burned arrived by boat on a supply run that the weather could
postpone for weeks.

Landing stores on a wave-washed rock was the dangerous part. Many stations
used a derrick and breeches buoy to swing crates from a heaving deck, and the
relief of keepers by the same method was a routine acrobatic act nobody
photographed.

Automation ended the rotations in the late twentieth century, but the supply
problem survives wherever the light still burns. Solar panels and LED arrays
cut the runs to one maintenance visit a year, carried now by helicopter more
often than by boat.`,
	},
}

var (
	srcDir    = flag.String("src", "", "directory of .txt and .md files to seed instead of the samples")
	batchSize = flag.Int("batch", 5, "documents per insert batch")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS %s (
	id         bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	title      text NOT NULL,
	content    text NOT NULL,
	status     text NOT NULL DEFAULT 'pending',
	created_at timestamptz NOT NULL DEFAULT now(),
	indexed_at timestamptz
)`

// documentsFromDir returns an iterator over the .txt and .md files in dir,
// one document per file, titled with the bare filename.
func documentsFromDir(dir string) (iter.Seq[sampleDocument], error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	return func(yield func(sampleDocument) bool) {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := filepath.Ext(entry.Name())
			if ext != ".txt" && ext != ".md" {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				slog.Warn("skipping unreadable file", "file", entry.Name(), "err", err)
				continue
			}
			doc := sampleDocument{
				Title:   strings.TrimSuffix(entry.Name(), ext),
				Content: string(data),
			}
			if !yield(doc) {
				return
			}
		}
	}, nil
}

// documentsFromSlice returns an iterator over the embedded samples.
func documentsFromSlice(docs []sampleDocument) iter.Seq[sampleDocument] {
	return func(yield func(sampleDocument) bool) {
		for _, doc := range docs {
			if !yield(doc) {
				return
			}
		}
	}
}

// seedBatched inserts documents from the source iterator in batches.
func seedBatched(ctx context.Context, conn *pgx.Conn, table string, source iter.Seq[sampleDocument], batchSize int) (int, error) {
	insertSQL := fmt.Sprintf("INSERT INTO %s (title, content) VALUES ($1, $2)", table)

	total := 0
	batch := &pgx.Batch{}
	flush := func() error {
		if batch.Len() == 0 {
			return nil
		}
		if err := conn.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
		total += batch.Len()
		batch = &pgx.Batch{}
		return nil
	}

	for doc := range source {
		batch.Queue(insertSQL, doc.Title, doc.Content)
		if batch.Len() == batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}

	// Insert any remaining documents
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

func main() {
	ctx := context.Background()

	settings, err := config.Load("")
	if err != nil {
		panic(err)
	}
	if settings.Database.URL == "" {
		panic("DATABASE_URL is required")
	}

	conn, err := pgx.Connect(ctx, settings.Database.URL)
	if err != nil {
		panic(err)
	}
	defer conn.Close(ctx)

	table := pgx.Identifier{settings.Database.Table}.Sanitize()
	if _, err := conn.Exec(ctx, fmt.Sprintf(createTableSQL, table)); err != nil {
		panic(err)
	}

	// Determine source of seed data
	var source iter.Seq[sampleDocument]
	if *srcDir != "" {
		source, err = documentsFromDir(*srcDir)
		if err != nil {
			panic(err)
		}
	} else {
		source = documentsFromSlice(samples)
	}

	total, err := seedBatched(ctx, conn, table, source, *batchSize)
	if err != nil {
		panic(err)
	}
	slog.Info("seeding finished", "table", settings.Database.Table, "documents", total)
}
