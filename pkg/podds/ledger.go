package podds

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/richard-senior/sofabet/internal/logger"
	_ "modernc.org/sqlite"
)

// Persistable interface defines methods that persistent objects must implement
type Persistable interface {
	GetTableName() string
	GetPrimaryKey() map[string]any
	BeforeSave() error
}

// Ledger is an sqlite record of every fixture the model has analysed
// Each process gets its own run id so repeated runs on the same day are kept apart
type Ledger struct {
	db    *sql.DB
	runID string
	now   func() time.Time
}

// OpenLedger opens (creating if needed) the ledger database at path
// ":memory:" gives a private in-memory ledger
func OpenLedger(path string) (*Ledger, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection, otherwise every pooled connection to :memory: sees its own empty database
	d.SetMaxOpenConns(1)

	if err = d.Ping(); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	l := &Ledger{db: d, runID: uuid.NewString(), now: time.Now}
	if err := l.CreateTable(&LedgerEntry{}); err != nil {
		d.Close()
		return nil, err
	}
	logger.Debug("Ledger opened", path, l.runID)
	return l, nil
}

// RunID identifies the rows written by this process
func (l *Ledger) RunID() string {
	return l.runID
}

// SetClock replaces the time source used to stamp rows
func (l *Ledger) SetClock(now func() time.Time) {
	l.now = now
}

// Close closes the database connection
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Record stores p under the current run
func (l *Ledger) Record(p *Prediction) error {
	return l.Save(NewLedgerEntry(l.runID, p, l.now()))
}

// Recent returns the latest n rows, newest first
func (l *Ledger) Recent(n int) ([]*LedgerEntry, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := l.FindWhere(&LedgerEntry{}, "1 = 1 ORDER BY recorded_at DESC, fixture_id ASC LIMIT ?", n)
	if err != nil {
		return nil, err
	}
	out := make([]*LedgerEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.(*LedgerEntry))
	}
	return out, nil
}

// ForRun returns every row written by one run, ordered by kick off
func (l *Ledger) ForRun(runID string) ([]*LedgerEntry, error) {
	rows, err := l.FindWhere(&LedgerEntry{}, "run_id = ? ORDER BY game_start, fixture_id", runID)
	if err != nil {
		return nil, err
	}
	out := make([]*LedgerEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.(*LedgerEntry))
	}
	return out, nil
}

/////////////////////////////////////////////////////////////////////////
////// Ledger rows
/////////////////////////////////////////////////////////////////////////

// LedgerEntry is the flattened form of a Prediction
// Bookmaker prices of 0 mean no price was available
type LedgerEntry struct {
	RunID      string  `json:"runId" column:"run_id" dbtype:"TEXT NOT NULL" primary:"true" index:"true"`
	FixtureID  int     `json:"fixtureId" column:"fixture_id" dbtype:"INTEGER NOT NULL" primary:"true" index:"true"`
	RecordedAt string  `json:"recordedAt" column:"recorded_at" dbtype:"TEXT NOT NULL" index:"true"`
	League     string  `json:"league" column:"league" dbtype:"TEXT NOT NULL DEFAULT ''"`
	HomeTeam   string  `json:"homeTeam" column:"home_team" dbtype:"TEXT NOT NULL DEFAULT ''"`
	AwayTeam   string  `json:"awayTeam" column:"away_team" dbtype:"TEXT NOT NULL DEFAULT ''"`
	GameStart  string  `json:"gameStart" column:"game_start" dbtype:"TEXT NOT NULL DEFAULT ''"`
	LambdaHome float64 `json:"lambdaHome" column:"lambda_home" dbtype:"REAL DEFAULT 0.0"`
	LambdaAway float64 `json:"lambdaAway" column:"lambda_away" dbtype:"REAL DEFAULT 0.0"`
	HomeWin    float64 `json:"homeWin" column:"home_win" dbtype:"REAL DEFAULT 0.0"`
	Draw       float64 `json:"draw" column:"draw" dbtype:"REAL DEFAULT 0.0"`
	AwayWin    float64 `json:"awayWin" column:"away_win" dbtype:"REAL DEFAULT 0.0"`
	Over2p5    float64 `json:"over2p5" column:"over_2p5" dbtype:"REAL DEFAULT 0.0"`
	BothScore  float64 `json:"bothTeamsScore" column:"both_score" dbtype:"REAL DEFAULT 0.0"`
	TopScore   string  `json:"topScore" column:"top_score" dbtype:"TEXT NOT NULL DEFAULT ''"`
	BookHome   float64 `json:"bookHome" column:"book_home" dbtype:"REAL DEFAULT 0.0"`
	BookDraw   float64 `json:"bookDraw" column:"book_draw" dbtype:"REAL DEFAULT 0.0"`
	BookAway   float64 `json:"bookAway" column:"book_away" dbtype:"REAL DEFAULT 0.0"`
}

// NewLedgerEntry flattens p for storage
func NewLedgerEntry(runID string, p *Prediction, at time.Time) *LedgerEntry {
	return &LedgerEntry{
		RunID:      runID,
		FixtureID:  p.MatchID,
		RecordedAt: at.UTC().Format(time.RFC3339),
		League:     p.LeagueName,
		HomeTeam:   p.HomeTeamName,
		AwayTeam:   p.AwayTeamName,
		GameStart:  p.GameStart.UTC().Format(time.RFC3339),
		LambdaHome: p.LambdaHome,
		LambdaAway: p.LambdaAway,
		HomeWin:    p.Distribution.HomeWin,
		Draw:       p.Distribution.Draw,
		AwayWin:    p.Distribution.AwayWin,
		Over2p5:    p.Over2p5Goals,
		BothScore:  p.BothTeamsScore,
		TopScore:   p.Distribution.MostLikelyScore().Score,
		BookHome:   p.Odds.Home.Value,
		BookDraw:   p.Odds.Draw.Value,
		BookAway:   p.Odds.Away.Value,
	}
}

// BookOdds turns the stored prices back into MatchOdds
func (e *LedgerEntry) BookOdds() MatchOdds {
	conv := func(v float64) Odds {
		if v <= 0 {
			return Unavailable()
		}
		return NewOdds(v)
	}
	return MatchOdds{Home: conv(e.BookHome), Draw: conv(e.BookDraw), Away: conv(e.BookAway)}
}

func (e *LedgerEntry) GetTableName() string {
	return "ledger"
}

func (e *LedgerEntry) GetPrimaryKey() map[string]any {
	return map[string]any{
		"run_id":     e.RunID,
		"fixture_id": e.FixtureID,
	}
}

func (e *LedgerEntry) BeforeSave() error {
	if e.RunID == "" {
		return fmt.Errorf("ledger entry for fixture %d has no run id", e.FixtureID)
	}
	if e.RecordedAt == "" {
		e.RecordedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return nil
}

/////////////////////////////////////////////////////////////////////////
////// Struct tag driven persistence
/////////////////////////////////////////////////////////////////////////

// CreateTable creates a table for the given persistable object using struct tags
func (l *Ledger) CreateTable(obj Persistable) error {
	tableName := obj.GetTableName()
	createSQL := generateCreateTableSQL(obj, tableName)

	logger.Debug("Creating table with SQL", createSQL)

	if _, err := l.db.Exec(createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	for _, query := range generateIndexSQL(obj, tableName) {
		logger.Debug("Creating index with SQL", query)
		if _, err := l.db.Exec(query); err != nil {
			logger.Warn("Failed to create index", err)
		}
	}
	return nil
}

// generateCreateTableSQL generates CREATE TABLE SQL from struct tags
func generateCreateTableSQL(obj any, tableName string) string {
	var columns []string
	var primaryKeys []string

	for _, field := range persistedFields(obj) {
		columnName := columnOf(field)
		dbType := field.Tag.Get("dbtype")
		if field.Tag.Get("primary") == "true" {
			primaryKeys = append(primaryKeys, columnName)
			dbType = strings.TrimSpace(strings.ReplaceAll(dbType, "PRIMARY KEY", ""))
		}
		columns = append(columns, fmt.Sprintf("%s %s", columnName, dbType))
	}

	if len(primaryKeys) > 0 {
		columns = append(columns, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(primaryKeys, ", ")))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tableName, strings.Join(columns, ", "))
}

// generateIndexSQL generates index creation SQL from struct tags
func generateIndexSQL(obj any, tableName string) []string {
	var indexSQL []string
	for _, field := range persistedFields(obj) {
		if field.Tag.Get("index") == "" {
			continue
		}
		columnName := columnOf(field)
		indexName := fmt.Sprintf("idx_%s_%s", tableName, columnName)
		indexSQL = append(indexSQL, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", indexName, tableName, columnName))
	}
	return indexSQL
}

// Save persists the object to the database (INSERT or UPDATE)
func (l *Ledger) Save(obj Persistable) error {
	if err := obj.BeforeSave(); err != nil {
		return fmt.Errorf("before save hook failed: %w", err)
	}

	exists, err := l.Exists(obj)
	if err != nil {
		return fmt.Errorf("failed to check existence: %w", err)
	}
	if exists {
		return l.update(obj)
	}
	return l.insert(obj)
}

// insert adds a new record to the database
func (l *Ledger) insert(obj Persistable) error {
	tableName := obj.GetTableName()
	var columns, placeholders []string
	var values []any

	v := structValue(obj)
	for _, field := range persistedFields(obj) {
		columns = append(columns, columnOf(field))
		placeholders = append(placeholders, "?")
		values = append(values, v.FieldByIndex(field.Index).Interface())
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tableName, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	logger.Debug("Insert SQL", query)

	if _, err := l.db.Exec(query, values...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", tableName, err)
	}
	return nil
}

// update modifies an existing record in the database
func (l *Ledger) update(obj Persistable) error {
	tableName := obj.GetTableName()
	var setPairs []string
	var values []any

	v := structValue(obj)
	for _, field := range persistedFields(obj) {
		if field.Tag.Get("primary") == "true" {
			continue
		}
		setPairs = append(setPairs, fmt.Sprintf("%s = ?", columnOf(field)))
		values = append(values, v.FieldByIndex(field.Index).Interface())
	}

	whereClause, whereValues := buildWhereClause(obj.GetPrimaryKey())
	values = append(values, whereValues...)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", tableName, strings.Join(setPairs, ", "), whereClause)
	logger.Debug("Update SQL", query)

	if _, err := l.db.Exec(query, values...); err != nil {
		return fmt.Errorf("failed to update %s: %w", tableName, err)
	}
	return nil
}

// Exists checks if the object exists in the database
func (l *Ledger) Exists(obj Persistable) (bool, error) {
	tableName := obj.GetTableName()
	whereClause, values := buildWhereClause(obj.GetPrimaryKey())

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", tableName, whereClause)

	var count int
	if err := l.db.QueryRow(query, values...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check existence in %s: %w", tableName, err)
	}
	return count > 0, nil
}

// FindWhere executes a custom WHERE query, returning new instances of obj's type
func (l *Ledger) FindWhere(obj Persistable, whereClause string, args ...any) ([]any, error) {
	tableName := obj.GetTableName()
	var columns []string
	for _, field := range persistedFields(obj) {
		columns = append(columns, columnOf(field))
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(columns, ", "), tableName, whereClause)
	logger.Debug("FindWhere SQL", query)

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", tableName, err)
	}
	defer rows.Close()

	objType := reflect.TypeOf(obj)
	if objType.Kind() == reflect.Ptr {
		objType = objType.Elem()
	}

	var results []any
	for rows.Next() {
		newObj := reflect.New(objType)
		var destinations []any
		for _, field := range persistedFields(obj) {
			destinations = append(destinations, newObj.Elem().FieldByIndex(field.Index).Addr().Interface())
		}
		if err := rows.Scan(destinations...); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", tableName, err)
		}
		results = append(results, newObj.Interface())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows from %s: %w", tableName, err)
	}
	return results, nil
}

// buildWhereClause builds a WHERE clause from a primary key map
func buildWhereClause(primaryKey map[string]any) (string, []any) {
	var conditions []string
	var values []any
	for column, value := range primaryKey {
		conditions = append(conditions, fmt.Sprintf("%s = ?", column))
		values = append(values, value)
	}
	return strings.Join(conditions, " AND "), values
}

// persistedFields returns the exported fields carrying a dbtype tag, in declaration order
func persistedFields(obj any) []reflect.StructField {
	objType := reflect.TypeOf(obj)
	if objType.Kind() == reflect.Ptr {
		objType = objType.Elem()
	}
	var fields []reflect.StructField
	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)
		if !field.IsExported() || field.Tag.Get("db") == "-" || field.Tag.Get("dbtype") == "" {
			continue
		}
		fields = append(fields, field)
	}
	return fields
}

func columnOf(field reflect.StructField) string {
	if c := field.Tag.Get("column"); c != "" {
		return c
	}
	return strings.ToLower(field.Name)
}

func structValue(obj any) reflect.Value {
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return v
}
