// Package services defines the [PhotoService] interface the sync engine talks to and implements it for Immich.
//
// # Immich Implementation
//
// [ImmichService] authenticates every request with the x-api-key header. Requests share a single
// [http.Client] with a fixed timeout and are paced by a [rate.Limiter]; nothing is retried.
//
// Search results are paged with POST /api/search/metadata until a short page is returned.
// Person and tag filters are sent as ID lists, which the server ANDs.
//
// # Raw Access
//
// [APIService] performs authenticated requests without interpreting the response, for the
// `api get` debugging command.
//
// # Error Handling
//
// Any response with status 400 or above becomes an [UpstreamError] carrying the method, path,
// status and body. It matches [shared.ErrUpstream] with errors.Is. GetAlbum additionally wraps
// [shared.ErrAlbumNotFound] on 404.
//
// [CheckVersion] compares the reported server version against a semver minimum and returns
// [shared.ErrUnsupportedVersion] for older releases.
package services
