package lzt

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type JobStatus string

const (
	JobPlanned JobStatus = "planned"
	JobSkipped JobStatus = "skipped"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// JobRecord is one row of the Jobs bookkeeping table.
type JobRecord struct {
	ID         int64     `db:"ID"`
	RunNumber  int       `db:"RunNumber"`
	JobIndex   int       `db:"JobIndex"`
	FirstEvent int       `db:"FirstEvent"`
	NEvents    int       `db:"NEvents"`
	Seed       int       `db:"Seed"`
	OutputFile string    `db:"OutputFile"`
	Status     JobStatus `db:"Status"`
	Message    string    `db:"Message"`
	Updated    time.Time `db:"Updated"`
}

func NewJobRecord(runNumber int, job GenJob, status JobStatus) JobRecord {
	first := -1
	if len(job.Events) > 0 {
		first = job.Events[0]
	}
	return JobRecord{
		RunNumber:  runNumber,
		JobIndex:   job.Index,
		FirstEvent: first,
		NEvents:    len(job.Events),
		Seed:       job.Seed,
		OutputFile: job.OutputFile,
		Status:     status,
	}
}

// Catalog keeps track of the generation jobs of every run.
type Catalog struct {
	db *sqlx.DB
}

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

// OpenCatalog connects with the configured driver: "mysql" uses host, user,
// pass and dbname; "sqlite" uses db_path.
func OpenCatalog(config Configuration) (*Catalog, error) {
	var db *sqlx.DB
	var err error
	switch config.DBDriver {
	case "mysql":
		db, err = ConnectToDatabase(config.User, config.Passwd, config.Host, config.DBName)
	case "sqlite":
		if config.DBPath == "" {
			return nil, fmt.Errorf("sqlite catalog requires db_path")
		}
		db, err = sqlx.Connect("sqlite", config.DBPath)
		if err == nil {
			// one writer at a time, workers update concurrently
			db.SetMaxOpenConns(1)
		}
	default:
		return nil, fmt.Errorf("unknown catalog driver %q", config.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s catalog: %w", config.DBDriver, err)
	}
	c := &Catalog{db: db}
	if err := c.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func NewCatalog(db *sqlx.DB) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

const createJobsTable = `CREATE TABLE IF NOT EXISTS Jobs (
	ID %s,
	RunNumber INTEGER NOT NULL,
	JobIndex INTEGER NOT NULL,
	FirstEvent INTEGER NOT NULL,
	NEvents INTEGER NOT NULL,
	Seed INTEGER NOT NULL,
	OutputFile VARCHAR(1024) NOT NULL,
	Status VARCHAR(16) NOT NULL,
	Message TEXT NOT NULL,
	Updated TIMESTAMP NOT NULL
)`

func (c *Catalog) Init(ctx context.Context) error {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if c.db.DriverName() == "mysql" {
		id = "INTEGER PRIMARY KEY AUTO_INCREMENT"
	}
	if _, err := c.db.ExecContext(ctx, fmt.Sprintf(createJobsTable, id)); err != nil {
		return fmt.Errorf("error creating Jobs table: %w", err)
	}
	return nil
}

func (c *Catalog) RecordJob(ctx context.Context, rec JobRecord) error {
	rec.Updated = time.Now().UTC()
	query := `INSERT INTO Jobs (RunNumber, JobIndex, FirstEvent, NEvents, Seed, OutputFile, Status, Message, Updated)
		VALUES (:RunNumber, :JobIndex, :FirstEvent, :NEvents, :Seed, :OutputFile, :Status, :Message, :Updated)`
	if configuration.Verbosity > 2 {
		logger.Info(fmt.Sprintf("Query: %s", strings.Join(strings.Fields(query), " ")), "database")
	}
	if _, err := c.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("error recording job %d: %w", rec.JobIndex, err)
	}
	return nil
}

// UpdateStatus changes the status of the latest record for outputFile in
// runNumber. Earlier records and other runs keep their status.
func (c *Catalog) UpdateStatus(ctx context.Context, runNumber int, outputFile string, status JobStatus, message string) error {
	var id sql.NullInt64
	query := c.db.Rebind(`SELECT MAX(ID) FROM Jobs WHERE RunNumber = ? AND OutputFile = ?`)
	if err := c.db.GetContext(ctx, &id, query, runNumber, outputFile); err != nil {
		return fmt.Errorf("error looking up job %s: %w", outputFile, err)
	}
	if !id.Valid {
		return fmt.Errorf("no job recorded for %s in run %d", outputFile, runNumber)
	}

	query = c.db.Rebind(`UPDATE Jobs SET Status = ?, Message = ?, Updated = ? WHERE ID = ?`)
	if _, err := c.db.ExecContext(ctx, query, status, message, time.Now().UTC(), id.Int64); err != nil {
		return fmt.Errorf("error updating job %s: %w", outputFile, err)
	}
	return nil
}

func (c *Catalog) Jobs(ctx context.Context, runNumber int) ([]JobRecord, error) {
	query := c.db.Rebind(`SELECT ID, RunNumber, JobIndex, FirstEvent, NEvents, Seed, OutputFile, Status, Message, Updated
		FROM Jobs WHERE RunNumber = ? ORDER BY JobIndex, ID`)
	rows, err := c.db.QueryxContext(ctx, query, runNumber)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	var records []JobRecord
	for rows.Next() {
		result := JobRecord{}
		if err := rows.StructScan(&result); err != nil {
			return nil, fmt.Errorf("error scanning DB row: %w", err)
		}
		records = append(records, result)
	}
	return records, rows.Err()
}
