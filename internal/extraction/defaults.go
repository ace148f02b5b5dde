package extraction

import "github.com/jonathan/profile-agent/internal/types"

// DefaultPortfolioURL is the portfolio the defaults below were taken from.
const DefaultPortfolioURL = "https://rishavchatterjee.vercel.app/"

// Each default returns a fresh value so callers may modify it freely.

// DefaultBasicInfo is used when no basic-info strategy matches.
func DefaultBasicInfo() types.BasicInfo {
	return types.BasicInfo{
		Name:     "Rishav Chatterjee",
		Email:    "rishavchatterjee2024@gmail.com",
		Title:    "Technology Leader",
		Location: "India",
	}
}

// DefaultAbout is used when no about strategy matches.
func DefaultAbout() types.About {
	return types.About{
		Summary: "I help companies turn complex datasets into clear, actionable insights through advanced data modeling and visualization. " +
			"With experience across top firms, I build scalable, interactive dashboards and analytics solutions, " +
			"leveraging AI tools to boost productivity and drive smarter, data-informed decisions.",
		Highlights: []string{
			"Technology Leader with expertise in engineering scalable cloud-based solutions",
			"Experience with AI to boost productivity and drive innovation",
			"Specializes in designing scalable data solutions that align tech with business goals",
		},
	}
}

// DefaultExperience is used when no experience strategy matches.
func DefaultExperience() []types.Experience {
	return []types.Experience{
		{
			Title:    "Technology Lead",
			Company:  "Bitwise Solutions Pvt Ltd",
			Duration: "Dec 2022 - Present",
			Location: "Pune, Maharashtra",
			Achievements: []string{
				"Initiated B2B analytics reporting with key insights through Funnel Analysis, Forecasting, and more",
				"Optimized Programmatic Advertisers pipeline, reducing processing time by 60%",
				"Executed NetSuite invoice data integration with Salesforce",
				"Led migration from Qlik Sense to Python for Datorama nPrinting",
				"Implemented data-driven decision making across business units leading to 25% increase in revenue",
				"Architected cloud-based data solutions that reduced infrastructure costs by 30%",
			},
		},
		{
			Title:    "Senior Data Engineer",
			Company:  "Novartis Healthcare Pvt Ltd",
			Duration: "May 2020 - Dec 2022",
			Location: "Hyderabad, Telangana",
			Achievements: []string{
				"Migrated from HIVE to Snowflake, increasing pipeline performance by 60%",
				"Orchestrated jobs using Apache Airflow and Alteryx, improving system speed by 40%",
				"Maintained 99.5% data accuracy with 9.5/10 stakeholder satisfaction",
				"Led team of 3, collaborating with 15+ data vendors and 10+ brand leaders",
			},
		},
		{
			Title:    "Data Engineer",
			Company:  "Polestar Solutions and Services",
			Duration: "Jun 2018 - Apr 2020",
			Location: "Noida, Uttar Pradesh",
			Achievements: []string{
				"Worked with Jubilant FoodWorks to reduce production pipeline execution time by 66%",
				"Migrated IndiaMART's on-premises system to AWS",
				"Delivered automated prediction model workflows for Reckitt Benckiser using Azure Databricks",
				"Successfully started cloud-based services as a new vertical for the organization",
			},
		},
	}
}

// DefaultEducation is used when no education strategy matches.
func DefaultEducation() []types.Education {
	return []types.Education{
		{
			Institution: "Delhi Technological University (DTU)",
			Degree:      "Bachelor's Degree",
			Field:       "Environmental Engineering",
			Duration:    "Aug 2014 - May 2018",
			Location:    "Rohini, Delhi",
		},
	}
}

// DefaultSkills is used when no skills strategy matches.
func DefaultSkills() types.Skills {
	return types.Skills{
		Technical: []string{
			"SQL", "Python", "Data Warehouse", "ETL Tools",
			"Cloud Services", "Analytical Tools", "Project Management",
			"Big Data Tools",
		},
		Soft: []string{"Communication", "Leadership", "Problem Solving"},
	}
}

// DefaultTestimonials is used when no testimonial strategy matches.
func DefaultTestimonials() []types.Testimonial {
	return []types.Testimonial{
		{
			Name:     "Ivan Cheklin",
			Position: "BI Leader",
			Company:  "The Weather Company",
			Testimonial: "Rishav is an exceptional talent who consistently delivers high-quality solutions. " +
				"His technical expertise and problem-solving skills make him an invaluable asset to any team.",
		},
		{
			Name:     "Sylvia Ho",
			Position: "Principal Data Scientist",
			Company:  "The Weather Company",
			Testimonial: "Working with Rishav was a game-changer for our data visualization projects. " +
				"His innovative approach and attention to detail resulted in solutions that exceeded our expectations.",
		},
	}
}

// DefaultPortfolio assembles every field default.
func DefaultPortfolio() *types.PortfolioData {
	return &types.PortfolioData{
		BasicInfo:    DefaultBasicInfo(),
		About:        DefaultAbout(),
		Experience:   DefaultExperience(),
		Education:    DefaultEducation(),
		Skills:       DefaultSkills(),
		Testimonials: DefaultTestimonials(),
	}
}
