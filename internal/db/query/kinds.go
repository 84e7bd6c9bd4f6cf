package query

// Table names used as the relation part of a Key.
const (
	TablePlaylist   = "playlist"
	TableCategories = "categories"
)

const (
	categorieMinName = "(SELECT MIN(categories.name) FROM categories" +
		" JOIN formation_categories ON formation_categories.categorie_id = categories.id" +
		" WHERE formation_categories.formation_id = formations.id)"

	playlistFormationCount = "(SELECT COUNT(*) FROM formations WHERE formations.playlist_id = playlists.id)"
)

// Formations lists formations.
var Formations = &Kind{ //nolint:gochecknoglobals
	name:       "formation",
	table:      "formations",
	selectExpr: "formations.*",
	searchOrder: []term{
		{order: order{expr: "formations.published_at", nullsLast: true}, dir: Desc},
	},
	orders: map[Key]order{
		{"", "title"}:       {expr: "formations.title"},
		{"", "publishedAt"}: {expr: "formations.published_at", nullsLast: true},
		{TablePlaylist, "name"}: {
			expr:      "playlists.name",
			join:      "LEFT JOIN playlists ON playlists.id = formations.playlist_id",
			nullsLast: true,
		},
		{TableCategories, "name"}: {expr: categorieMinName, nullsLast: true},
	},
	filters: map[Key]filter{
		{"", "title"}:       {cond: "formations.title LIKE ?"},
		{"", "description"}: {cond: "formations.description LIKE ?"},
		{TablePlaylist, "name"}: {
			cond: "formations.playlist_id IN (SELECT playlists.id FROM playlists WHERE playlists.name LIKE ?)",
		},
		{TableCategories, "id"}: {
			cond: "EXISTS (SELECT 1 FROM formation_categories" +
				" WHERE formation_categories.formation_id = formations.id" +
				" AND formation_categories.categorie_id = ?)",
			match: equals,
		},
		{TableCategories, "name"}: {
			cond: "EXISTS (SELECT 1 FROM formation_categories" +
				" JOIN categories ON categories.id = formation_categories.categorie_id" +
				" WHERE formation_categories.formation_id = formations.id" +
				" AND categories.name LIKE ?)",
		},
	},
}

// Playlists lists playlists with their formation count in nb_formations.
var Playlists = &Kind{ //nolint:gochecknoglobals
	name:         "playlist",
	table:        "playlists",
	selectExpr:   "playlists.*, " + playlistFormationCount + " AS nb_formations",
	defaultOrder: []term{{order: order{expr: "playlists.name"}, dir: Asc}},
	searchOrder:  []term{{order: order{expr: "playlists.name"}, dir: Asc}},
	orders: map[Key]order{
		{"", "name"}:             {expr: "playlists.name"},
		{"", "nombreformations"}: {expr: "nb_formations"},
	},
	filters: map[Key]filter{
		{"", "name"}:        {cond: "playlists.name LIKE ?"},
		{"", "description"}: {cond: "playlists.description LIKE ?"},
		{TableCategories, "id"}: {
			cond: "EXISTS (SELECT 1 FROM formations" +
				" JOIN formation_categories ON formation_categories.formation_id = formations.id" +
				" WHERE formations.playlist_id = playlists.id" +
				" AND formation_categories.categorie_id = ?)",
			match: equals,
		},
		{TableCategories, "name"}: {
			cond: "EXISTS (SELECT 1 FROM formations" +
				" JOIN formation_categories ON formation_categories.formation_id = formations.id" +
				" JOIN categories ON categories.id = formation_categories.categorie_id" +
				" WHERE formations.playlist_id = playlists.id" +
				" AND categories.name LIKE ?)",
		},
	},
}

// Categories lists categories.
var Categories = &Kind{ //nolint:gochecknoglobals
	name:        "categorie",
	table:       "categories",
	selectExpr:  "categories.*",
	searchOrder: []term{{order: order{expr: "categories.name"}, dir: Asc}},
	orders: map[Key]order{
		{"", "name"}: {expr: "categories.name"},
	},
	filters: map[Key]filter{
		{"", "name"}: {cond: "categories.name LIKE ?"},
	},
}
