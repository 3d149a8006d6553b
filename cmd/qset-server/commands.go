package main

// commands creates a new router and registers every command the server
// supports.
func (app *application) commands() *Router {
	router := NewRouter()

	// Generic Commands
	router.Handle("PING", app.handlePing)
	router.Handle("INFO", app.handleInfo)
	router.Handle("DEL", app.handleDel)
	router.Handle("EXISTS", app.handleExists)
	router.Handle("MEMORY", app.handleMemory)

	// Counters
	router.Handle("QS.CREATE", app.handleQSCreate)
	router.Handle("QS.ADD", app.handleQSAdd)
	router.Handle("QS.SUM", app.handleQSSum)
	router.Handle("QS.BATCH", app.handleQSBatch)
	router.Handle("QS.UNIQUE", app.handleQSUnique)
	router.Handle("QS.GET", app.handleQSGet)
	router.Handle("QS.HAS", app.handleQSHas)
	router.Handle("QS.DELETE", app.handleQSDelete)
	router.Handle("QS.CARD", app.handleQSCard)

	// Extraction
	router.Handle("QS.KEYS", app.handleQSKeys)
	router.Handle("QS.VALUES", app.handleQSValues)
	router.Handle("QS.ENTRIES", app.handleQSEntries)
	router.Handle("QS.SORTED", app.handleQSSorted)

	// Rank Window
	router.Handle("QS.TOP", app.handleQSTop)
	router.Handle("QS.TOPK", app.handleQSTopK)
	router.Handle("QS.TOPV", app.handleQSTopV)
	router.Handle("QS.DERANK", app.handleQSDerank)
	router.Handle("QS.RESIZE", app.handleQSResize)
	router.Handle("QS.CLEAR", app.handleQSClear)
	router.Handle("QS.INFO", app.handleQSInfo)

	return router
}
