package service_test

import (
	"net/http"
)

// roundTripperFunc lets a test stub transport behavior without a server.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Test Feed</title>
<link>https://example.com</link>
<description>A feed for tests</description>
<item>
  <title>First Post</title>
  <link>https://example.com/first</link>
  <description>Content of the first post</description>
  <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
</item>
<item>
  <title>Second Post</title>
  <link>https://example.com/second</link>
  <description>Content of the second post</description>
  <pubDate>Tue, 03 Jan 2006 15:04:05 GMT</pubDate>
</item>
</channel>
</rss>`

const emptyRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Empty Feed</title>
<link>https://example.com</link>
<description>No entries</description>
</channel>
</rss>`
