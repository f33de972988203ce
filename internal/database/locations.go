package database

import (
	"context"
)

const listStorageAreas = `
SELECT id, name FROM storage_areas ORDER BY name
`

// ListStorageAreas returns all storage areas ordered by name
func (q *Queries) ListStorageAreas(ctx context.Context) ([]StorageArea, error) {
	rows, err := q.db.Query(ctx, listStorageAreas)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var areas []StorageArea
	for rows.Next() {
		var a StorageArea
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

const listStorageCabinets = `
SELECT id, area_id, name, shelf_height, doors_left, doors_right, columns
FROM storage_cabinets
ORDER BY area_id, name
`

// ListStorageCabinets returns all cabinets ordered by area and name
func (q *Queries) ListStorageCabinets(ctx context.Context) ([]StorageCabinet, error) {
	rows, err := q.db.Query(ctx, listStorageCabinets)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cabinets []StorageCabinet
	for rows.Next() {
		var c StorageCabinet
		if err := rows.Scan(&c.ID, &c.AreaID, &c.Name, &c.ShelfHeight, &c.DoorsLeft, &c.DoorsRight, &c.Columns); err != nil {
			return nil, err
		}
		cabinets = append(cabinets, c)
	}
	return cabinets, rows.Err()
}

const getStorageAreaByName = `
SELECT id, name FROM storage_areas WHERE name = $1
`

func (q *Queries) GetStorageAreaByName(ctx context.Context, name string) (StorageArea, error) {
	row := q.db.QueryRow(ctx, getStorageAreaByName, name)
	var a StorageArea
	err := row.Scan(&a.ID, &a.Name)
	return a, err
}

const createStorageArea = `
INSERT INTO storage_areas (name) VALUES ($1) RETURNING id, name
`

func (q *Queries) CreateStorageArea(ctx context.Context, name string) (StorageArea, error) {
	row := q.db.QueryRow(ctx, createStorageArea, name)
	var a StorageArea
	err := row.Scan(&a.ID, &a.Name)
	return a, err
}

const getCabinetByAreaAndName = `
SELECT id, area_id, name, shelf_height, doors_left, doors_right, columns
FROM storage_cabinets
WHERE area_id = $1 AND name = $2
`

func (q *Queries) GetCabinetByAreaAndName(ctx context.Context, areaID int32, name string) (StorageCabinet, error) {
	row := q.db.QueryRow(ctx, getCabinetByAreaAndName, areaID, name)
	var c StorageCabinet
	err := row.Scan(&c.ID, &c.AreaID, &c.Name, &c.ShelfHeight, &c.DoorsLeft, &c.DoorsRight, &c.Columns)
	return c, err
}

const createStorageCabinet = `
INSERT INTO storage_cabinets (area_id, name, shelf_height, doors_left, doors_right, columns)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, area_id, name, shelf_height, doors_left, doors_right, columns
`

type CreateStorageCabinetParams struct {
	AreaID      int32
	Name        string
	ShelfHeight int32
	DoorsLeft   int32
	DoorsRight  int32
	Columns     int32
}

func (q *Queries) CreateStorageCabinet(ctx context.Context, arg CreateStorageCabinetParams) (StorageCabinet, error) {
	row := q.db.QueryRow(ctx, createStorageCabinet,
		arg.AreaID,
		arg.Name,
		arg.ShelfHeight,
		arg.DoorsLeft,
		arg.DoorsRight,
		arg.Columns,
	)
	var c StorageCabinet
	err := row.Scan(&c.ID, &c.AreaID, &c.Name, &c.ShelfHeight, &c.DoorsLeft, &c.DoorsRight, &c.Columns)
	return c, err
}

const getStorageCabinetByID = `
SELECT id, area_id, name, shelf_height, doors_left, doors_right, columns
FROM storage_cabinets
WHERE id = $1
`

func (q *Queries) GetStorageCabinetByID(ctx context.Context, id int32) (StorageCabinet, error) {
	row := q.db.QueryRow(ctx, getStorageCabinetByID, id)
	var c StorageCabinet
	err := row.Scan(&c.ID, &c.AreaID, &c.Name, &c.ShelfHeight, &c.DoorsLeft, &c.DoorsRight, &c.Columns)
	return c, err
}

const deleteStorageCabinet = `
DELETE FROM storage_cabinets WHERE id = $1
`

func (q *Queries) DeleteStorageCabinet(ctx context.Context, id int32) error {
	_, err := q.db.Exec(ctx, deleteStorageCabinet, id)
	return err
}

const countCabinetsInArea = `
SELECT COUNT(*) FROM storage_cabinets WHERE area_id = $1
`

func (q *Queries) CountCabinetsInArea(ctx context.Context, areaID int32) (int64, error) {
	row := q.db.QueryRow(ctx, countCabinetsInArea, areaID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteStorageArea = `
DELETE FROM storage_areas WHERE id = $1
`

func (q *Queries) DeleteStorageArea(ctx context.Context, id int32) error {
	_, err := q.db.Exec(ctx, deleteStorageArea, id)
	return err
}
