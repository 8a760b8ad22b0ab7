package domain

// builtinProducts is the fixed compiled-in catalog. The numeric ids form the
// built-in id space; remote ids must never collide with them.
var builtinProducts = []Product{
	{ID: BuiltinID(1), Name: "Traditional Mangalsutra", Price: 24999.99, Category: CategoryNecklaces, Description: "Sacred mangalsutra with black beads and gold pendant, symbolizing marital bliss and prosperity.", Image: "asset/20250925_080542.jpg", InStock: true, Source: SourceDefault},
	{ID: BuiltinID(2), Name: "Kundan Pearl Necklace", Price: 8999.99, Category: CategoryNecklaces, Description: "Exquisite kundan work necklace with lustrous pearls and traditional Indian craftsmanship.", Image: "asset/20250925_090339.jpg", InStock: true, Source: SourceDefault},
	{ID: BuiltinID(3), Name: "Traditional Jhumkas", Price: 2999.99, Category: CategoryEarrings, Description: "Classic Indian jhumkas with intricate filigree work and traditional bell design.", Image: "asset/20250925_090345.jpg", InStock: true, Source: SourceDefault},
	{ID: BuiltinID(4), Name: "Gold Bangles Set", Price: 12999.99, Category: CategoryBracelets, Description: "Traditional Indian gold bangles with meenakari work and traditional patterns.", Image: "asset/20250925_090556.jpg", InStock: true, Source: SourceDefault},
	{ID: BuiltinID(5), Name: "Navratna Ring", Price: 18999.99, Category: CategoryRings, Description: "Sacred navratna ring with nine precious stones representing the nine planets.", Image: "asset/20251008_114129.jpg", InStock: true, Source: SourceDefault},
	{ID: BuiltinID(6), Name: "Temple Jhumkas", Price: 5999.99, Category: CategoryEarrings, Description: "Ornate temple-style jhumkas with traditional Indian motifs and gold work.", Image: "asset/20251008_114135.jpg", InStock: true, Source: SourceDefault},
	{ID: BuiltinID(7), Name: "Layered Gold Necklace", Price: 4499.99, Category: CategoryNecklaces, Description: "Elegant layered gold necklace with traditional Indian chain patterns.", Image: "asset/20251022_145801.jpg", InStock: true, Source: SourceDefault},
	{ID: BuiltinID(8), Name: "Lac Bangles Set", Price: 1999.99, Category: CategoryBracelets, Description: "Colorful traditional lac bangles with intricate designs and patterns.", Image: "asset/20251022_145820.jpg", InStock: true, Source: SourceDefault},
	{ID: BuiltinID(9), Name: "Antique Gold Ring", Price: 7999.99, Category: CategoryRings, Description: "Vintage-inspired gold ring with traditional Indian craftsmanship and motifs.", Image: "asset/20251022_145828.jpg", InStock: true, Source: SourceDefault},
	{ID: BuiltinID(10), Name: "Diamond Studs", Price: 14999.99, Category: CategoryEarrings, Description: "Classic diamond stud earrings in traditional Indian gold setting.", Image: "asset/20251022_145840.jpg", InStock: true, Source: SourceDefault},
	{ID: BuiltinID(11), Name: "Om Pendant Necklace", Price: 3499.99, Category: CategoryNecklaces, Description: "Sacred Om symbol pendant necklace with traditional Indian chain.", Image: "asset/20251022_150028.jpg", InStock: true, Source: SourceDefault},
	{ID: BuiltinID(12), Name: "Traditional Kada", Price: 2499.99, Category: CategoryBracelets, Description: "Traditional Indian kada bracelet with intricate gold work and cultural significance.", Image: "asset/20251022_150250.jpg", InStock: true, Source: SourceDefault},
	{ID: BuiltinID(13), Name: "Gold Earrings Collection", Price: 8999.99, Category: CategoryEarrings, Description: "Beautiful traditional gold earrings with modern elegance.", Image: "asset/20251022_150314.jpg", InStock: true, Source: SourceDefault},
	{ID: BuiltinID(14), Name: "Premium Jewelry Set", Price: 19999.99, Category: CategoryNecklaces, Description: "Stunning premium jewelry set with intricate traditional designs.", Image: "asset/20251022_150326.jpg", InStock: true, Source: SourceDefault},
}

// Builtins returns a fresh copy of the compiled-in catalog.
func Builtins() []Product {
	out := make([]Product, len(builtinProducts))
	copy(out, builtinProducts)
	return out
}

// BuiltinIDSet returns the set of built-in identifiers keyed by their
// rendered form, used by the reconciler to enforce id disjointness.
func BuiltinIDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(builtinProducts))
	for _, p := range builtinProducts {
		set[p.ID.String()] = struct{}{}
	}
	return set
}
