package master

import "path/filepath"

// Paths below are bit-exact to the on-disk layout every recovery walk and
// every Create call depends on:
//
//	{data_dir}/data/bootstrap.ge
//	{data_dir}/data/{db}/db.ge
//	{data_dir}/data/{db}/{view}/view.ge
//	{data_dir}/data/{db}/{view}/{index}.ge
//	{data_dir}/data/{db}/{view}/{index}.record.ge  (Disk engine only)
const (
	bootstrapFileName = "bootstrap.ge"
	databaseFileName  = "db.ge"
	viewFileName      = "view.ge"
	recordSuffix      = ".record.ge"
	geSuffix          = ".ge"
)

func dataRoot(dataDir string) string {
	return filepath.Join(dataDir, "data")
}

func bootstrapPath(dataDir string) string {
	return filepath.Join(dataRoot(dataDir), bootstrapFileName)
}

func databaseDir(dataDir, db string) string {
	return filepath.Join(dataRoot(dataDir), db)
}

func databasePath(dataDir, db string) string {
	return filepath.Join(databaseDir(dataDir, db), databaseFileName)
}

func viewDir(dataDir, db, viewName string) string {
	return filepath.Join(databaseDir(dataDir, db), viewName)
}

func viewPath(dataDir, db, viewName string) string {
	return filepath.Join(viewDir(dataDir, db, viewName), viewFileName)
}

func indexPath(dataDir, db, viewName, indexName string) string {
	return filepath.Join(viewDir(dataDir, db, viewName), indexName+geSuffix)
}

func indexRecordPath(dataDir, db, viewName, indexName string) string {
	return filepath.Join(viewDir(dataDir, db, viewName), indexName+recordSuffix)
}
