package weather

// NewWithClock builds a collector whose refresh deadlines follow now
var NewWithClock = newCollector
