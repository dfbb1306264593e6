package catalog

import "github.com/MrSnakeDoc/vianime/internal/domain"

// Category names of the built-in catalog.
const (
	Category2D = "2D"
	Category3D = "3D"
)

// SourceBuiltin identifies the compiled-in catalog.
const SourceBuiltin = "builtin"

// Builtin returns the catalog shipped with the app.
func Builtin() []Category {
	return []Category{
		{
			Name: Category2D,
			Entries: []domain.CatalogEntry{
				{ID: "1", Title: "Naruto Shippuden", Image: "https://th.bing.com/th/id/OIP.A8PLHsjNOCYCJnc9kPu5VgHaKs?w=115&h=180&c=7&r=0&o=7&pid=1.7&rm=3", Link: "https://9animetv.to/search?keyword=naruto"},
				{ID: "2", Title: "One Piece", Image: "https://cdn.myanimelist.net/images/anime/6/73245.jpg", Link: "https://9animetv.to/search?keyword=one+piece"},
				{ID: "3", Title: "Attack on Titan", Image: "https://cdn.myanimelist.net/images/anime/10/47347.jpg", Link: "https://9animetv.to/search?keyword=attack+on+titan"},
				{ID: "4", Title: "Jujutsu Kaisen", Image: "https://cdn.myanimelist.net/images/anime/1171/109222.jpg", Link: "https://9animetv.to/search?keyword=jujutsu+kaisen"},
				{ID: "5", Title: "Demon Slayer", Image: "https://cdn.myanimelist.net/images/anime/1286/99889.jpg", Link: "https://9animetv.to/search?keyword=demonslayer"},
			},
		},
		{
			Name: Category3D,
			Entries: []domain.CatalogEntry{
				{ID: "21", Title: "Battle Through the Heavens", Image: "https://animexin.dev/wp-content/uploads/2024/10/BTTH-S5-Ax.jpg", Link: "https://animexin.dev/btth-season-5/"},
				{ID: "22", Title: "Renegade Immortal", Image: "https://animexin.dev/wp-content/uploads/2023/09/renegade-immortal-AX-HD.jpg", Link: "https://animexin.dev/renegade-immortal-episode-106-indonesia-english-sub/"},
			},
		},
	}
}
