package skills

// DefaultVocabulary returns the built-in technology vocabulary.
func DefaultVocabulary() *Vocabulary {
	v := NewVocabulary()

	v.RegisterCategory(CategoryBackend, "Python", "py")
	v.RegisterCategory(CategoryFrontend, "JavaScript", "js", "ecmascript")
	v.RegisterCategory(CategoryBackend, "Java")
	v.RegisterCategory(CategoryOther, "C++", "cpp")
	v.RegisterCategory(CategoryOther, "C#", "csharp", "c sharp")
	v.RegisterCategory(CategoryBackend, "Go", "golang", "go lang")
	v.RegisterCategory(CategoryOther, "Rust")
	v.RegisterCategory(CategoryBackend, "PHP")
	v.RegisterCategory(CategoryBackend, "Ruby")
	v.RegisterCategory(CategoryFrontend, "TypeScript", "ts")
	v.RegisterCategory(CategoryFrontend, "React", "react.js", "reactjs")
	v.RegisterCategory(CategoryFrontend, "Angular", "angularjs", "angular.js")
	v.RegisterCategory(CategoryFrontend, "Vue", "vue.js", "vuejs")
	v.RegisterCategory(CategoryBackend, "Django")
	v.RegisterCategory(CategoryBackend, "Flask")
	v.RegisterCategory(CategoryBackend, "FastAPI")
	v.RegisterCategory(CategoryBackend, "Node.js", "node", "nodejs")
	v.RegisterCategory(CategoryBackend, "Express", "express.js", "expressjs")

	v.RegisterCategory(CategoryDatabase, "MySQL")
	v.RegisterCategory(CategoryDatabase, "PostgreSQL", "postgres", "psql")
	v.RegisterCategory(CategoryDatabase, "MongoDB", "mongo")
	v.RegisterCategory(CategoryDatabase, "Redis")
	v.RegisterCategory(CategoryDatabase, "SQL")
	v.RegisterCategory(CategoryDatabase, "NoSQL")

	v.RegisterCategory(CategoryDevOps, "AWS", "amazon web services")
	v.RegisterCategory(CategoryDevOps, "Azure", "microsoft azure")
	v.RegisterCategory(CategoryDevOps, "GCP", "google cloud", "google cloud platform")
	v.RegisterCategory(CategoryDevOps, "Docker")
	v.RegisterCategory(CategoryDevOps, "Kubernetes", "k8s")
	v.RegisterCategory(CategoryDevOps, "Terraform")
	v.RegisterCategory(CategoryDevOps, "Jenkins")
	v.RegisterCategory(CategoryDevOps, "CI/CD", "cicd", "ci", "continuous integration")

	v.RegisterCategory(CategoryOther, "Git")
	v.RegisterCategory(CategoryOther, "REST", "restful")
	v.RegisterCategory(CategoryOther, "GraphQL")
	v.RegisterCategory(CategoryOther, "API", "apis")
	v.RegisterCategory(CategoryOther, "Microservices", "microservice")
	v.RegisterCategory(CategoryOther, "UX", "user experience")

	v.RegisterCategory(CategoryOther, "Machine Learning", "ml")
	v.RegisterCategory(CategoryOther, "Deep Learning")
	v.RegisterCategory(CategoryOther, "NLP", "natural language processing")

	return v
}
