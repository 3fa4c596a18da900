package middleware

import (
	"net/http"

	"github.com/rushboard/challenge-api/internal/request"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
)

const defaultGlobalRate = "300-M"

// GlobalRateLimit returns a coarse per-client limiter applied in front of the
// whole API. It backstops the per-category limits with a generous ceiling so a
// single client cannot saturate the read path. The rate uses the
// ulule/limiter format, e.g. "300-M" for 300 requests per minute.
func GlobalRateLimit(rate string) (func(http.Handler) http.Handler, error) {
	if rate == "" {
		rate = defaultGlobalRate
	}
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memorystore.NewStore(), r)
	keyGetter := func(req *http.Request) string {
		return request.ClientIP(req)
	}
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(keyGetter))
	return mw.Handler, nil
}
