package database

var SQLiteDSN = sqliteDSN
