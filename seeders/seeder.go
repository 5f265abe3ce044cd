package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"porter-system/pkg/utils"
)

// SeedDirectory fills floors, zones and rooms. Safe to run repeatedly; rows
// that already exist are skipped.
func SeedDirectory(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding directory (floors, zones, rooms)...")

	for _, floor := range floorSeeds {
		floorID, err := upsertFloor(ctx, db, floor)
		if err != nil {
			log.Fatalf("seed floor %q: %v", floor.Name, err)
		}
		for _, zone := range floor.Zones {
			zoneID, err := upsertZone(ctx, db, floorID, zone.Name)
			if err != nil {
				log.Fatalf("seed zone %q: %v", zone.Name, err)
			}
			for _, room := range zone.Rooms {
				if err := upsertRoom(ctx, db, zoneID, room); err != nil {
					log.Fatalf("seed room %q: %v", room.Name, err)
				}
			}
		}
	}
	log.Println("directory seeded")
}

// SeedStaff creates the demo staff accounts.
func SeedStaff(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding staff...")

	for _, staff := range staffSeeds {
		var exists bool
		err := db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE employee_code = $1)`, staff.EmployeeCode).Scan(&exists)
		if err != nil {
			log.Fatalf("check staff %q: %v", staff.EmployeeCode, err)
		}
		if exists {
			continue
		}

		hash, err := utils.HashPassword(staff.Password)
		if err != nil {
			log.Fatalf("hash password for %q: %v", staff.EmployeeCode, err)
		}

		_, err = db.Exec(ctx,
			`INSERT INTO users (employee_code, full_name, role, phone, password_hash, current_floor_id)
			 VALUES ($1, $2, $3, $4, $5, (SELECT id FROM floors WHERE name = $6 LIMIT 1))`,
			staff.EmployeeCode, staff.FullName, staff.Role, staff.Phone, hash, staff.FloorName,
		)
		if err != nil {
			log.Fatalf("insert staff %q: %v", staff.EmployeeCode, err)
		}
	}
	log.Println("staff seeded")
}

// SeedEquipment registers the transportable units.
func SeedEquipment(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding equipment...")

	for _, eq := range equipmentSeeds {
		_, err := db.Exec(ctx,
			`INSERT INTO equipment (equipment_code, type, battery_level, current_floor_id)
			 VALUES ($1, $2, $3, (SELECT id FROM floors WHERE name = $4 LIMIT 1))
			 ON CONFLICT (equipment_code) DO NOTHING`,
			eq.Code, eq.Type, eq.BatteryLevel, eq.FloorName,
		)
		if err != nil {
			log.Fatalf("insert equipment %q: %v", eq.Code, err)
		}
	}
	log.Println("equipment seeded")
}

func upsertFloor(ctx context.Context, db *pgxpool.Pool, floor floorSeed) (string, error) {
	var id string
	err := db.QueryRow(ctx,
		`SELECT id FROM floors WHERE name = $1 AND building = $2`, floor.Name, floor.Building).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = db.QueryRow(ctx,
		`INSERT INTO floors (name, building, level) VALUES ($1, $2, $3) RETURNING id`,
		floor.Name, floor.Building, floor.Level).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert floor: %w", err)
	}
	return id, nil
}

func upsertZone(ctx context.Context, db *pgxpool.Pool, floorID, name string) (string, error) {
	var id string
	err := db.QueryRow(ctx,
		`SELECT id FROM zones WHERE floor_id = $1 AND name = $2`, floorID, name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = db.QueryRow(ctx,
		`INSERT INTO zones (floor_id, name) VALUES ($1, $2) RETURNING id`, floorID, name).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert zone: %w", err)
	}
	return id, nil
}

func upsertRoom(ctx context.Context, db *pgxpool.Pool, zoneID string, room roomSeed) error {
	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM rooms WHERE zone_id = $1 AND name = $2)`, zoneID, room.Name).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = db.Exec(ctx,
		`INSERT INTO rooms (zone_id, name, room_type) VALUES ($1, $2, $3)`, zoneID, room.Name, room.RoomType)
	if err != nil {
		return fmt.Errorf("insert room: %w", err)
	}
	return nil
}
