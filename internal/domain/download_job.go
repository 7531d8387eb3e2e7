package domain

// FeedIdentifier is the provider's logical name for one daily feed file,
// e.g. "malicious-ips.v4.csv".
type FeedIdentifier string

// String returns the identifier as a plain string
func (f FeedIdentifier) String() string {
	return string(f)
}

// DefaultFeeds is the full set of daily feeds offered by the provider
var DefaultFeeds = []FeedIdentifier{
	"deny-cidrs.v4",
	"deny-cidrs.v6",
	"deny-domains",
	"deny-ips.v4",
	"deny-ips.v6",
	"hosts",
	"malicious-cidrs.v4.csv",
	"malicious-cidrs.v4.jsonl",
	"malicious-cidrs.v6.csv",
	"malicious-cidrs.v6.jsonl",
	"malicious-domains.csv",
	"malicious-domains.jsonl",
	"malicious-file-hashes.csv",
	"malicious-file-hashes.jsonl",
	"malicious-ips.v4.csv",
	"malicious-ips.v6.csv",
	"malicious-ips.v4.jsonl",
	"malicious-ips.v6.jsonl",
	"malicious-urls.csv",
	"malicious-urls.jsonl",
	"nginx-access.v4",
	"nginx-access.v6",
}

// DownloadJob is one fully-resolved download request. Jobs are built once per
// run and never mutated afterwards.
type DownloadJob struct {
	// Seq is the 1-based position of the job in the planned list
	Seq int

	Feed           FeedIdentifier
	RemoteFileName string
	RemoteURL      string
	LocalPath      string

	// AuthHeader is the complete Authorization header value
	AuthHeader string
}
