package store

import "github.com/bulbousnub/wats-go/internal/model"

// DataFileName is the canonical persistence file name
const DataFileName = "WATS_Data.json"

// BackupFileName is the suggested default name for exported backups
const BackupFileName = "WATS_Data_Backup"

// defaultPlayers seeds a fresh install
func defaultPlayers() []model.Player {
	return []model.Player{
		model.NewPlayer(model.PrimaryUserName),
		model.NewPlayer("Shay"),
	}
}

// defaultCategories is the stock list of shopping-channel segments
func defaultCategories() []string {
	return []string{
		"Fashion (Clothing)",
		"Shoes",
		"Jewelry",
		"Cosmetics / Skincare",
		"Fragrance",
		"Haircare / Styling Tools",
		"Handbags / Accessories",
		"Home Décor",
		"Kitchenware / Cookware",
		"Small Appliances",
		"Bedding / Linens",
		"Electronics / Tech Gadgets",
		"Fitness / Wellness",
		"Food & Gourmet Treats",
		"Holiday / Seasonal Items",
		"Cleaning Supplies",
		"Outdoor / Garden",
		"Crafts / Hobbies",
		"Pets",
		"Misc / As Seen on TV",
	}
}
