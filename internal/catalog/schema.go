package catalog

// FileConfig is the root structure of the catalog file.
// Categories keep their file order:
//
//	- 2D:
//	    - id: "1"
//	      title: Naruto Shippuden
//	      image: https://...
//	      link: https://...
type FileConfig []map[string][]EntryProps

// EntryProps contains the properties of one title
type EntryProps struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Image string `yaml:"image,omitempty"`
	Link  string `yaml:"link,omitempty"`
}
