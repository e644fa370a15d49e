package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Dev helper for the migration workflow: golang-migrate orders files by
// their numeric prefix, so inserting a migration in the middle means
// renumbering every pair after it. Run with `go run tools.go`.

const migrationsDir = "db/migrations"

type migrationPair struct {
	number   int
	name     string
	upPath   string
	downPath string
}

func main() {
	pairs, err := readMigrationPairs(migrationsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", migrationsDir, err)
		os.Exit(1)
	}

	if len(pairs) == 0 {
		fmt.Println("no migration files found")
		return
	}

	fmt.Println("Migrations:")
	for i, pair := range pairs {
		fmt.Printf("  %3d. %06d_%s\n", i+1, pair.number, pair.name)
	}

	reader := bufio.NewReader(os.Stdin)

	from, err := promptNumber(reader, fmt.Sprintf("Move which migration (1-%d): ", len(pairs)), len(pairs))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	to, err := promptNumber(reader, fmt.Sprintf("New position (1-%d): ", len(pairs)), len(pairs))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if from == to {
		fmt.Println("already in place")
		return
	}

	if err := renumber(pairs, from-1, to-1); err != nil {
		fmt.Fprintf(os.Stderr, "rename failed: %v\n", err)
		os.Exit(1)
	}

	pairs, _ = readMigrationPairs(migrationsDir)
	fmt.Println("New order:")
	for i, pair := range pairs {
		fmt.Printf("  %3d. %06d_%s\n", i+1, pair.number, pair.name)
	}
}

func promptNumber(reader *bufio.Reader, prompt string, max int) (int, error) {
	fmt.Print(prompt)
	input, _ := reader.ReadString('\n')
	value, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || value < 1 || value > max {
		return 0, fmt.Errorf("expected a number between 1 and %d", max)
	}
	return value, nil
}

// renumber moves the pair at index from to index to, shifting everything
// in between by one. The moved pair goes through a temp name so no rename
// ever collides with an existing file.
func renumber(pairs []migrationPair, from, to int) error {
	moved := pairs[from]

	tempUp := filepath.Join(os.TempDir(), "migration_renumber.up.sql")
	tempDown := filepath.Join(os.TempDir(), "migration_renumber.down.sql")

	if err := os.Rename(moved.upPath, tempUp); err != nil {
		return err
	}
	if err := os.Rename(moved.downPath, tempDown); err != nil {
		_ = os.Rename(tempUp, moved.upPath)
		return err
	}

	if to < from {
		for i := from - 1; i >= to; i-- {
			if err := renamePair(pairs[i], i+2); err != nil {
				return err
			}
		}
	} else {
		for i := from + 1; i <= to; i++ {
			if err := renamePair(pairs[i], i); err != nil {
				return err
			}
		}
	}

	finalBase := fmt.Sprintf("%06d_%s", to+1, moved.name)
	if err := os.Rename(tempUp, filepath.Join(migrationsDir, finalBase+".up.sql")); err != nil {
		return err
	}
	return os.Rename(tempDown, filepath.Join(migrationsDir, finalBase+".down.sql"))
}

func renamePair(pair migrationPair, newPosition int) error {
	base := fmt.Sprintf("%06d_%s", newPosition, pair.name)
	if err := os.Rename(pair.upPath, filepath.Join(migrationsDir, base+".up.sql")); err != nil {
		return err
	}
	return os.Rename(pair.downPath, filepath.Join(migrationsDir, base+".down.sql"))
}

func readMigrationPairs(dir string) ([]migrationPair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var pairs []migrationPair
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		// 000001_name.up.sql
		parts := strings.SplitN(entry.Name(), "_", 2)
		if len(parts) < 2 {
			continue
		}

		number, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}

		upPath := filepath.Join(dir, entry.Name())
		pairs = append(pairs, migrationPair{
			number:   number,
			name:     strings.TrimSuffix(parts[1], ".up.sql"),
			upPath:   upPath,
			downPath: strings.TrimSuffix(upPath, ".up.sql") + ".down.sql",
		})
	}

	return pairs, nil
}
