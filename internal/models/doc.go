// Package models defines the data model for album synchronisation.
//
// The package contains three categories of types:
//
// 1. Album definitions: what a smart album should contain
//   - [FilterConfig] : a named album and its filter
//   - [FilterExpression] : typed filter fields with AND/OR person semantics
//   - [StringList], [TimespanList] : fields accepting a scalar or a list
//
// 2. Sync values: ephemeral, recomputed on every pass
//   - [AtomicQuery] : one conjunctive search request
//   - [AssetIDSet] : unique asset identifiers
//   - [ReconciliationPlan] : assets to add and to remove
//   - [NameMapping] : name to identifier snapshot for people or tags
//   - [Person], [Tag], [Album], [Asset], [ServerVersion] : photo service DTOs
//
// 3. Persistent Entities: sync history stored in SQLite
//   - [SyncRun] : one pass over the album definitions
//   - [AlbumSync] : the outcome for a single album within a run
//
// Persistent entities implement the [Model] interface; [Repository] defines standard CRUD operations for database access.
package models
